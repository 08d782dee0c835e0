package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Decode reads the body of an HTTP request looking for a JSON document.
// The body is decoded into the provided value. The body of a JSON-RPC
// style request may carry framing noise ahead of the document, so
// decoding starts at the first opening brace.
func Decode(r *http.Request, val any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	idx := bytes.IndexByte(body, '{')
	if idx == -1 {
		return errors.New("no JSON document in request body")
	}

	if err := json.Unmarshal(body[idx:], val); err != nil {
		return err
	}

	return nil
}
