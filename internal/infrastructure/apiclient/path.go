package apiclient

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var pathParamRe = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// resolvePath sustituye los tokens :name del endpoint por el valor de params codificado.
// Un token sin valor es un error de uso del cliente.
func resolvePath(endpoint string, params map[string]string) (string, error) {
	var missing []string
	resolved := pathParamRe.ReplaceAllStringFunc(endpoint, func(tok string) string {
		name := tok[1:]
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return tok
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("apiclient: faltan parámetros de ruta %s en %s", strings.Join(missing, ", "), endpoint)
	}
	return resolved, nil
}

// encodeQuery serializa un mapa plano omitiendo valores nil.
func encodeQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range query {
		s, ok := queryValue(v)
		if !ok {
			continue
		}
		values.Set(k, s)
	}
	return values.Encode()
}

func queryValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case *int:
		if t == nil {
			return "", false
		}
		return fmt.Sprint(*t), true
	case *bool:
		if t == nil {
			return "", false
		}
		return fmt.Sprint(*t), true
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}
