// Package css parses scoped stylesheets and renders them as plain CSS.
//
// A stylesheet is parsed once into an immutable Sheet:
//
//	sheet, err := css.Parse(`
//		color: red;
//		&:hover { color: blue; }
//		@media (max-width: 500px) { span { display: none; } }
//	`)
//
// and can then be rendered for any number of scoping class names:
//
//	css.RenderString(sheet, "c1")
//
// Selectors are rewritten for the class: "&" and ":root" are replaced by
// it, selectors starting with a pseudo-class are attached to it and all
// other selectors become its descendants. Declarations outside of any block
// apply to the class itself. An empty class name renders a global style
// rooted at html.
//
// Nested blocks are resolved against their parent selectors and at-rules
// found inside blocks are hoisted around them. Consecutive output sharing
// the same enclosing conditions is written inside a single set of braces.
//
// Text of the form ${name} is kept as a placeholder, its value can be
// supplied when rendering. $${name} is written as the literal ${name}.
package css
