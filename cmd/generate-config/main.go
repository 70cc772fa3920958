// Command generate-config writes an example config.yaml with every default filled in.
//
//	generate-config [file|-]
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/minimal-blog/internal/config"
)

const header = "# Minimal Blog Configuration Example\n# Copy this file to config.yaml and customize as needed\n"

func main() {
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		if err := generate(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
			os.Exit(1)
		}
		return
	}

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	if err := generate(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

// generate writes the defaults as YAML, preceded by the environment variables
// that override them.
func generate(w io.Writer) error {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "can't marshal defaults")
	}

	var b strings.Builder
	b.WriteString(header)
	if vars := envOverrides(reflect.TypeOf(*cfg), ""); len(vars) > 0 {
		b.WriteString("#\n# Environment overrides:\n")
		for _, v := range vars {
			b.WriteString("#   " + v + "\n")
		}
	}
	b.WriteString("\n")
	b.Write(data)

	_, err = io.WriteString(w, b.String())
	return err
}

// envOverrides lists "VAR -> yaml.path" for every field carrying an env tag.
func envOverrides(t reflect.Type, prefix string) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			out = append(out, envOverrides(field.Type, path)...)
			continue
		}
		if env := field.Tag.Get("env"); env != "" {
			out = append(out, env+" -> "+path)
		}
	}
	sort.Strings(out)
	return out
}
