// Package schema provides the declarative field and step definitions of a form
// and the rules that validate draft values against them.
//
// A Form is plain data: an ordered list of Fields and an ordered list of Steps,
// the last of which is the field-less review step. It can be written in Go,
// built with the dsl package, or decoded from YAML/JSON:
//
//	form := schema.Form{
//	    ID:    "newsletter",
//	    Title: "Newsletter",
//	    Fields: []schema.Field{
//	        {ID: "email", Label: "Email", Kind: domain.KindEmail, Required: true, Pattern: schema.EmailPattern},
//	    },
//	    Steps: []schema.Step{
//	        {Index: 1, Title: "Contact", Fields: []string{"email"}},
//	        {Index: 2, Title: "Review"},
//	    },
//	}
//
//	if err := form.Validate(); err != nil {
//	    // malformed schema: duplicate ids, dangling references, bad patterns...
//	}
//
//	result := schema.ValidateFields(form, draft, "email")
//	if !result.Valid() {
//	    fmt.Println(result["email"].Message)
//	}
//
// Field rules are evaluated in a fixed order (required, min length, pattern,
// equality) and the first failing rule wins. Invalid input is reported as data
// (Violation), never as a Go error.
package schema
