// Package flagx lets several config layers share os.Args without tripping
// over each other's flags: each layer picks out only the flags it owns and
// parses those with its own flag.FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigEnv names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnv = "CITYCARE_CONFIG"

// name strips one or two leading dashes and any "=value" suffix, so "-c",
// "--c" and "--c=x" all name the flag "c" as the flag package sees it.
func name(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", false
	}
	n := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	n, _, _ = strings.Cut(n, "=")
	return n, true
}

// FilterArgs keeps the arguments in args that belong to allowedFlags, in
// order. A flag written as "-f value" keeps its value when the next argument
// does not start with '-'; "-f=value" is kept whole. Single and double dash
// spellings are equivalent.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		if n, ok := name(f); ok {
			allowed[n] = true
		}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		n, ok := name(args[i])
		if !ok || !allowed[n] {
			continue
		}
		out = append(out, args[i])
		if strings.Contains(args[i], "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFile returns the JSON config path given with -c or -config in args,
// else the value of ConfigEnv, else "".
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	return path
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
