package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/core"
)

const curlCollectionName = "Imported from curl"

// CurlImporter imports one or more curl commands, such as a script written
// by the curl exporter. A comment line directly above a command names the
// request and a "# Collection:" comment names the collection.
type CurlImporter struct{}

// NewCurlImporter creates a new curl importer.
func NewCurlImporter() *CurlImporter {
	return &CurlImporter{}
}

func (c *CurlImporter) Name() string {
	return "curl command"
}

func (c *CurlImporter) Format() Format {
	return FormatCurl
}

func (c *CurlImporter) DetectFormat(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		if isCurlLine(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func isCurlLine(line string) bool {
	return line == "curl" || strings.HasPrefix(line, "curl ") || strings.HasPrefix(line, "curl\t")
}

func (c *CurlImporter) Import(ctx context.Context, content []byte) (*ImportResult, error) {
	name := curlCollectionName
	var (
		requests []*core.RequestDefinition
		warnings []string
		comment  string
	)

	for _, line := range joinContinuations(string(content)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#!"):
			comment = ""
		case strings.HasPrefix(line, "# Collection:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "# Collection:"))
			comment = ""
		case strings.HasPrefix(line, "#"):
			comment = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if strings.HasPrefix(comment, "===") {
				comment = ""
			}
		case isCurlLine(line):
			parsed, err := parseCurlCommand(line)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParseError, err)
			}
			if comment != "" {
				parsed.name = comment
			}
			requests = append(requests, parsed.request(&warnings))
			comment = ""
		default:
			comment = ""
		}
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: no curl command found", ErrParseError)
	}

	coll := core.NewCollection(name)
	for _, req := range requests {
		coll.AddRequest(req)
	}
	return newResult(coll, FormatCurl, warnings), nil
}

// joinContinuations folds backslash-newline continuations into single lines.
func joinContinuations(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\\\n", " ")
	return strings.Split(content, "\n")
}

type parsedCurl struct {
	name    string
	method  string
	url     string
	headers []core.KeyValue
	body    string
	auth    core.AuthConfig
}

func (p *parsedCurl) request(warnings *[]string) *core.RequestDefinition {
	req := core.NewRequestDefinition(p.name, parseMethod(p.method, p.name, warnings), p.url)
	req.SetHeaders(p.headers)
	req.SetBody(p.body)
	if p.auth.Type != "" {
		req.SetAuth(p.auth)
	}
	return req
}

func (p *parsedCurl) setHeader(key, value string) {
	// An Authorization bearer header maps onto bearer auth.
	if strings.EqualFold(key, "Authorization") && strings.HasPrefix(value, "Bearer ") && p.auth.Type == "" {
		p.auth = core.NewBearerAuth(strings.TrimPrefix(value, "Bearer "))
		return
	}
	p.headers = append(p.headers, core.NewKeyValue(key, value))
}

// setData records a request body. Sending data implies POST unless a method
// was given explicitly.
func (p *parsedCurl) setData(body string, explicitMethod bool) {
	p.body = body
	if !explicitMethod {
		p.method = string(core.MethodPost)
	}
}

func parseCurlCommand(cmd string) (*parsedCurl, error) {
	tokens, err := tokenize(cmd)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[0] != "curl" {
		return nil, fmt.Errorf("not a curl command")
	}

	result := &parsedCurl{method: string(core.MethodGet)}
	explicitMethod := false

	for i := 1; i < len(tokens); i++ {
		token := tokens[i]
		next := func() (string, bool) {
			if i+1 >= len(tokens) {
				return "", false
			}
			i++
			return tokens[i], true
		}

		switch token {
		case "-X", "--request":
			if v, ok := next(); ok {
				result.method = strings.ToUpper(v)
				explicitMethod = true
			}
		case "-H", "--header":
			if v, ok := next(); ok {
				if key, value, found := strings.Cut(v, ":"); found && strings.TrimSpace(key) != "" {
					result.setHeader(strings.TrimSpace(key), strings.TrimSpace(value))
				}
			}
		case "-d", "--data", "--data-raw", "--data-binary":
			if v, ok := next(); ok {
				result.setData(v, explicitMethod)
			}
		case "--data-urlencode":
			if v, ok := next(); ok {
				if result.body != "" {
					v = result.body + "&" + v
				}
				result.setData(v, explicitMethod)
			}
		case "--json":
			if v, ok := next(); ok {
				result.setData(v, explicitMethod)
				result.setHeader("Content-Type", "application/json")
				result.setHeader("Accept", "application/json")
			}
		case "-u", "--user":
			if v, ok := next(); ok {
				user, pass, _ := strings.Cut(v, ":")
				result.auth = core.NewBasicAuth(user, pass)
			}
		case "-A", "--user-agent":
			if v, ok := next(); ok {
				result.setHeader("User-Agent", v)
			}
		case "-e", "--referer":
			if v, ok := next(); ok {
				result.setHeader("Referer", v)
			}
		case "-b", "--cookie":
			if v, ok := next(); ok {
				result.setHeader("Cookie", v)
			}
		case "--url":
			if v, ok := next(); ok {
				result.url = v
			}
		case "-o", "--output", "-m", "--max-time", "--connect-timeout":
			next()
		case "-I", "--head":
			result.method = "HEAD"
			explicitMethod = true
		case "-G", "--get":
			result.method = string(core.MethodGet)
			explicitMethod = true
		default:
			// Remaining flags (-s, -L, -k, --compressed, ...) do not change
			// the request definition.
			if !strings.HasPrefix(token, "-") && result.url == "" {
				result.url = token
			}
		}
	}

	if result.url == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}
	result.name = nameFromURL(result.url)
	return result, nil
}

// tokenize splits a command line the way a POSIX shell would for quoting:
// single quotes are literal, double quotes honor backslash escapes.
func tokenize(cmd string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range cmd {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				current.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				tokens = append(tokens, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// nameFromURL uses the last path segment, falling back to the host.
func nameFromURL(url string) string {
	name := url
	if _, rest, found := strings.Cut(name, "://"); found {
		name = rest
	}
	name, _, _ = strings.Cut(name, "?")

	host, path, _ := strings.Cut(name, "/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if last := segments[len(segments)-1]; last != "" {
		return last
	}

	host, _, _ = strings.Cut(host, ":")
	return host
}

var _ Importer = (*CurlImporter)(nil)
