package forms

import (
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/dsl"
	"github.com/aretw0/stepform/pkg/schema"
)

// Contact field ids.
const (
	FieldName    = "name"
	FieldTopic   = "topic"
	FieldMessage = "message"
)

// Contact returns a two-step contact form: the message and its review.
func Contact() schema.Form {
	return dsl.New("contact").
		Title("Contact us").
		Step("Your Message").
		Field(FieldName).Label("Name").Required().
		Field(FieldEmail).Label("Email").Kind(domain.KindEmail).Required().Email().
		Message(schema.RulePattern, "Invalid email address").
		Field(FieldTopic).Label("Topic").
		Field(FieldMessage).Label("Message").Kind(domain.KindTextarea).Required().MinLength(10).
		Review("Review & Send").
		MustBuild()
}
