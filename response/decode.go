// response/decode.go
package response

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

type decoder func(io.Reader, any) error

var responseDecoders = map[string]decoder{
	"json": func(r io.Reader, out any) error { return json.NewDecoder(r).Decode(out) },
	"xml":  func(r io.Reader, out any) error { return xml.NewDecoder(r).Decode(out) },
}

// Decode unmarshals the body of resp into out according to its Content-Type and closes it.
func Decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	kind := bodyKind(contentType)
	decode, ok := responseDecoders[kind]
	if !ok {
		return fmt.Errorf("unexpected content type %q", contentType)
	}
	if err := decode(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", kind, err)
	}
	return nil
}
