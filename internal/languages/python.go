package languages

// PythonQuery is the Tree-Sitter query for lookup calls in Python
const PythonQuery = `
(call
  function: [
    (identifier) @fn
    (attribute
      attribute: (identifier) @fn
    )
  ]
  arguments: (argument_list
    .
    (string) @key
  )
)
`
