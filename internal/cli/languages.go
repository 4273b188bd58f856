package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jenian/langkeys/internal/keypath"
	"github.com/jenian/langkeys/internal/langxml"
	"github.com/jenian/langkeys/internal/output"
	"github.com/spf13/cobra"
)

// openStore opens the language file named by --xml, or Language.xml in the working directory
func (o *globalOptions) openStore() (*langxml.Store, error) {
	xmlFile := o.xmlFile
	if xmlFile == "" {
		xmlFile = DefaultXMLFile
	}
	store := langxml.Open(filepath.Clean(xmlFile))
	if !store.Initialized() {
		return nil, fmt.Errorf("failed to load language file: %w", store.Err())
	}
	return store, nil
}

func newLanguagesCmd(global *globalOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages declared in the language file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := global.openStore()
			if err != nil {
				return err
			}
			langs := store.AvailableLanguages()
			if langs == nil {
				return fmt.Errorf("%s declares no languages", store.Name())
			}
			return output.New(cmd.OutOrStdout(), output.Options{JSON: jsonOutput}).Languages(langs)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the languages as a JSON array")
	return cmd
}

func newTextCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "text <key> <language>",
		Short: "Print the text of a key for a language",
		Long:  "Print the text of a key for a language. Keys ending in /* print every text of the group, one per line.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := global.openStore()
			if err != nil {
				return err
			}
			key, language := args[0], args[1]

			var texts []string
			if p, parseErr := keypath.Parse(key); parseErr == nil && p.IsWildcard() {
				list, ok := store.TextListFor(key, language)
				if !ok {
					return notFound(store, key, language)
				}
				texts = list
			} else {
				text, ok := store.TextFor(key, language)
				if !ok {
					return notFound(store, key, language)
				}
				texts = []string{text}
			}

			for _, t := range texts {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func notFound(store *langxml.Store, key, language string) error {
	if err := store.Err(); err != nil {
		return fmt.Errorf("%s not found for %s: %w", key, language, err)
	}
	return fmt.Errorf("%s not found for %s", key, language)
}
