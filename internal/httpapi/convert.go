package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/types"
)

// ── Requests ─────────────────────────────────────────────────────────────────

// decodeBody fills v from a JSON object or a protobuf Struct body. An empty
// body leaves v untouched, since every clock field is optional.
func decodeBody(r *http.Request, v any) error {
	if isProtobuf(r) {
		s, err := readStruct(r)
		if err != nil {
			return err
		}
		return types.FromStruct(s, v)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ── Responses ────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResponse encodes v as a protobuf Struct when the client asked for
// protobuf, and as JSON otherwise.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsProtobuf(r) {
		s, err := types.ToStruct(v)
		if err != nil {
			http.Error(w, "proto convert error", http.StatusInternalServerError)
			return
		}
		writeProto(w, status, s)
		return
	}
	writeJSON(w, status, v)
}

// writeError writes {"error": code, "message": localized}.
func writeError(w http.ResponseWriter, r *http.Request, status int, code string, args ...any) {
	writeResponse(w, r, status, types.ErrorResponse{
		Error:   code,
		Message: localize(r, code, args...),
	})
}
