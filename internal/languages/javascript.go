package languages

// JavaScriptQuery is the Tree-Sitter query for lookup calls in JavaScript and TypeScript
// Supports plain calls (getText("/A")) and member calls (i18n.getText("/A"))
// Template strings are skipped since their value is only known at runtime
const JavaScriptQuery = `
(call_expression
  function: [
    (identifier) @fn
    (member_expression
      property: (property_identifier) @fn
    )
  ]
  arguments: (arguments
    .
    (string) @key
  )
)
`
