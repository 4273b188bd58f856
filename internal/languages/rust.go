package languages

// RustQuery is the Tree-Sitter query for lookup calls in Rust: free functions,
// path calls (lang::get_text) and method calls (lang.get_text)
const RustQuery = `
(call_expression
  function: [
    (identifier) @fn
    (scoped_identifier
      name: (identifier) @fn
    )
    (field_expression
      field: (field_identifier) @fn
    )
  ]
  arguments: (arguments
    .
    [
      (string_literal)
      (raw_string_literal)
    ] @key
  )
)
`
