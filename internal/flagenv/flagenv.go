// Package flagenv reads extra command line arguments from the STROBF_FLAGS
// environment variable, so build scripts can pin flags such as the salt
// without editing every invocation.
package flagenv

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar names the environment variable holding the extra arguments.
const EnvVar = "STROBF_FLAGS"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Split breaks s into fields separated by whitespace. A field may be wrapped
// in single or double quotes to keep spaces; there is no escaping inside
// quotes.
func Split(s string) ([]string, error) {
	var fields []string
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })
		if s == "" {
			return fields, nil
		}
		if q := s[0]; q == '"' || q == '\'' {
			end := strings.IndexByte(s[1:], q)
			if end < 0 {
				return nil, fmt.Errorf("unterminated %c string in %s", q, EnvVar)
			}
			fields = append(fields, s[1:end+1])
			s = s[end+2:]
			continue
		}
		end := 0
		for end < len(s) && !isSpace(s[end]) {
			end++
		}
		fields = append(fields, s[:end])
		s = s[end:]
	}
}

// Inject places the fields of value right after the subcommand name in args,
// which is the first argument not starting with '-'. Explicit arguments come
// later and therefore win for single-valued flags.
func Inject(args []string, value string) ([]string, error) {
	extra, err := Split(value)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return args, nil
	}
	at := len(args)
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			at = i + 1
			break
		}
	}
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[:at]...)
	out = append(out, extra...)
	return append(out, args[at:]...), nil
}

// Args returns os.Args[1:] with the contents of EnvVar injected.
func Args() ([]string, error) {
	return Inject(os.Args[1:], os.Getenv(EnvVar))
}
