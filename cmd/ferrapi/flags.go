package main

import (
	"fmt"
	"strings"

	"github.com/blackcoderx/ferrapi/pkg/auth"
	"github.com/blackcoderx/ferrapi/pkg/core"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/spf13/cobra"
)

// requestFlags holds the root command's request flags.
type requestFlags struct {
	method  string
	headers []string
	data    string
	value   string
	url     string
	timeout float64

	save            bool
	comp            bool
	createNamespace string
	deleteTarget    string
	deleteAll       string
	force           bool
	dryRun          bool

	user         string
	bearer       string
	oauth2Flow   string
	oauth2URL    string
	oauth2ID     string
	oauth2Secret string
	oauth2Scopes []string

	envFile    string
	schemaFile string
	copy       bool
	include    bool
	raw        bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.method, "request", "X", "GET", "HTTP method")
	fs.StringArrayVarP(&f.headers, "header", "H", nil, `request header as "Name: value" (repeatable)`)
	fs.StringVarP(&f.data, "data", "d", "", "request body sent as text")
	fs.StringVarP(&f.value, "value", "v", "", "request body as JSON (sent as text when not valid JSON)")
	fs.StringVarP(&f.url, "url", "u", "", "request URL")
	fs.Float64Var(&f.timeout, "timeout", 0, "request timeout in seconds")

	fs.BoolVarP(&f.save, "save", "s", false, "save the request under TARGET before sending it")
	fs.BoolVar(&f.comp, "comp", false, "choose TARGET interactively")
	fs.StringVar(&f.createNamespace, "create-namespace", "", "create an empty namespace")
	fs.StringVar(&f.deleteTarget, "delete", "", "delete the saved configuration of -X under a namespace")
	fs.StringVar(&f.deleteAll, "delete-all", "", "delete a namespace with everything beneath it")
	fs.BoolVar(&f.force, "force", false, "do not ask before --delete-all")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the resolved request instead of sending it")

	fs.StringVar(&f.user, "user", "", "basic auth credentials as USER:PASSWORD (resource owner for --oauth2-flow password)")
	fs.StringVar(&f.bearer, "bearer", "", "bearer token sent in the Authorization header")
	fs.StringVar(&f.oauth2Flow, "oauth2-flow", auth.FlowClientCredentials, "OAuth2 grant: client_credentials or password")
	fs.StringVar(&f.oauth2URL, "oauth2-token-url", "", "OAuth2 token endpoint; fetches a token before sending")
	fs.StringVar(&f.oauth2ID, "oauth2-client-id", "", "OAuth2 client ID")
	fs.StringVar(&f.oauth2Secret, "oauth2-client-secret", "", "OAuth2 client secret")
	fs.StringSliceVar(&f.oauth2Scopes, "oauth2-scope", nil, "OAuth2 scope (repeatable)")

	fs.StringVar(&f.envFile, "env", "", "YAML file of {{VAR}} values substituted before sending")
	fs.StringVar(&f.schemaFile, "schema", "", "JSON schema file the response body must match")
	fs.BoolVar(&f.copy, "copy", false, "copy the response body to the clipboard")
	fs.BoolVarP(&f.include, "include", "i", false, "include response headers in the output")
	fs.BoolVar(&f.raw, "raw", false, "print the response without colors")
}

// input converts the parsed flags into a resolver input. Only flags that were set on the
// command line become overrides.
func (f *requestFlags) input(cmd *cobra.Command, args []string) (core.Input, error) {
	changed := cmd.Flags().Changed

	method, err := storage.ParseMethod(f.method)
	if err != nil {
		return core.Input{}, err
	}

	in := core.Input{
		Method:          method,
		Interactive:     f.comp,
		CreateNamespace: f.createNamespace,
		DeleteAll:       f.deleteAll,
		Delete:          f.deleteTarget,
		Save:            f.save,
		Force:           f.force,
		DryRun:          f.dryRun,
	}
	if len(args) > 0 {
		in.Target = args[0]
	}

	if changed("url") {
		url := f.url
		in.Overrides.URL = &url
	}

	if len(f.headers) > 0 {
		headers, err := parseHeaders(f.headers)
		if err != nil {
			return core.Input{}, err
		}
		in.Overrides.Headers = headers
	}

	switch {
	case changed("data") && changed("value"):
		return core.Input{}, fmt.Errorf("--data and --value cannot be used together")
	case changed("data"):
		body := storage.TextBody(f.data)
		in.Overrides.Body = &body
	case changed("value"):
		body := storage.ParseValueBody(f.value)
		in.Overrides.Body = &body
	}

	if changed("timeout") {
		timeout, err := storage.TimeoutFromSeconds(f.timeout)
		if err != nil {
			return core.Input{}, fmt.Errorf("invalid --timeout: %w", err)
		}
		in.Overrides.Timeout = &timeout
	}

	if f.envFile != "" {
		env, err := storage.LoadEnvironment(f.envFile)
		if err != nil {
			return core.Input{}, err
		}
		in.Environment = env
	}

	authorizer, err := f.authorizer(in.Environment)
	if err != nil {
		return core.Input{}, err
	}
	in.Auth = authorizer

	return in, nil
}

// authorizer picks at most one authentication scheme. Credential values may use
// {{VAR}} and {{env:VAR}} placeholders.
func (f *requestFlags) authorizer(env map[string]string) (core.Authorizer, error) {
	sub := func(s string) string { return storage.SubstituteVariables(s, env) }

	schemes := 0
	for _, set := range []bool{f.oauth2URL != "", f.bearer != "", f.user != "" && f.oauth2URL == ""} {
		if set {
			schemes++
		}
	}
	if schemes > 1 {
		return nil, fmt.Errorf("--user, --bearer and --oauth2-token-url cannot be combined")
	}

	switch {
	case f.oauth2URL != "":
		o := auth.OAuth2{
			Flow:         f.oauth2Flow,
			TokenURL:     sub(f.oauth2URL),
			ClientID:     sub(f.oauth2ID),
			ClientSecret: sub(f.oauth2Secret),
			Scopes:       f.oauth2Scopes,
		}
		if f.user != "" {
			owner, err := auth.ParseBasic(sub(f.user))
			if err != nil {
				return nil, err
			}
			o.Username, o.Password = owner.Username, owner.Password
		}
		return o, nil
	case f.bearer != "":
		return auth.Bearer{Token: sub(f.bearer)}, nil
	case f.user != "":
		b, err := auth.ParseBasic(sub(f.user))
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, nil
}

// parseHeaders splits "Name: value" pairs. A later pair replaces an earlier one with the
// same name.
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		for existing := range headers {
			if strings.EqualFold(existing, name) {
				delete(headers, existing)
			}
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
