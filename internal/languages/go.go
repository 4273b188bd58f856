package languages

// GoQuery is the Tree-Sitter query for lookup calls in Go, either plain
// calls like GetText("/Menu/File", lang) or method calls like l.GetText(...)
// Note: We don't use predicates here, filtering on the function name is done in ExtractLookupCalls
const GoQuery = `
(call_expression
  function: [
    (identifier) @fn
    (selector_expression
      field: (field_identifier) @fn
    )
  ]
  arguments: (argument_list
    .
    [
      (interpreted_string_literal)
      (raw_string_literal)
    ] @key
  )
)
`
