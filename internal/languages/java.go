package languages

// JavaQuery is the Tree-Sitter query for lookup calls in Java, with or without a receiver
const JavaQuery = `
(method_invocation
  name: (identifier) @fn
  arguments: (argument_list
    .
    (string_literal) @key
  )
)
`
