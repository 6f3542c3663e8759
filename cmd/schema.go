package cmd

import (
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

func newSchemaCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the catalog discovered from the dataset as JSON",
		Example: `  musicstore schema -d chinook.db
  musicstore schema -d chinook.db --select '$.tables[*].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			sess, err := openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			out, err := renderCatalog(sess.catalog, f.selector)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&f.selector, "select", "", "JSONPath expression applied to the catalog")
	return cmd
}

// renderCatalog marshals v and, when selector is set, prints only the
// values the JSONPath expression matches.
func renderCatalog(v any, selector string) (string, error) {
	raw, err := oj.Marshal(v, &ojg.Options{UseTags: true, KeyExact: true})
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}
	doc, err := oj.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse catalog: %w", err)
	}

	opts := &ojg.Options{Indent: 2}
	if selector == "" {
		return oj.JSON(doc, opts), nil
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return "", fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return oj.JSON(x.Get(doc), opts), nil
}
