package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blackcoderx/ferrapi/pkg/render"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls [NAMESPACE]",
	Short: "List child namespaces and saved methods",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace := ""
		if len(args) > 0 {
			namespace = args[0]
		}

		out, err := listNamespace(storage.NewStore(settings.Root), namespace)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

// listNamespace renders the methods saved directly under namespace followed by one line
// per child namespace with its saved methods. An empty namespace lists the root.
func listNamespace(store *storage.Store, namespace string) (string, error) {
	dir := store.Root()
	if namespace != "" {
		encoded, err := store.Codec().Encode(namespace)
		if err != nil {
			return "", err
		}
		dir = encoded
	}

	children, err := storage.ListChildren(dir)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if namespace != "" {
		methods, err := storage.MethodsIn(dir)
		if err != nil {
			return "", err
		}
		if len(methods) > 0 {
			sb.WriteString(fmt.Sprintf("%s %s\n", namespace, formatMethods(methods)))
		}
	}

	for _, child := range children {
		methods, err := storage.MethodsIn(filepath.Join(dir, child))
		if err != nil {
			return "", err
		}
		name := child
		if namespace != "" {
			name = storage.Join(namespace, child)
		}
		line := render.AccentStyle.Render(name + "/")
		if len(methods) > 0 {
			line += " " + formatMethods(methods)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String(), nil
}

func formatMethods(methods []storage.Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return render.DimStyle.Render("[" + strings.Join(names, " ") + "]")
}
