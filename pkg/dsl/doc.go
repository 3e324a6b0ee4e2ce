/*
Package dsl provides a fluent Go builder for multi-step form schemas.

It produces the same plain schema.Form data that YAML or JSON documents decode
into, so forms can be declared in code with IDE autocompletion and
type-checking and still be validated, serialized and inspected as data.

Example usage:

	form, err := dsl.New("newsletter").
		Title("Newsletter").
		Step("Contact").
		Field("email").Label("Email").Kind(domain.KindEmail).Required().Email().
		Field("name").Label("Name").
		Review("Confirm").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := stepform.New(form)
*/
package dsl
