package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	"github.com/polyforge/polychain/pkg/errors"
)

// defaultMaxUploadBytes caps monomer uploads and inspect bodies when no
// limit is configured. XYZ text is tiny; anything near this is not a monomer.
const defaultMaxUploadBytes = 8 << 20

// ChainHandler serves the generate, repeat, and inspect operations.
type ChainHandler struct {
	svc      *polymer.Service
	scratch  *fsstore.Scratch
	maxBytes int64
}

// NewChainHandler constructs a ChainHandler. scratch may be nil to skip
// upload staging; maxBytes <= 0 selects the default upload cap.
func NewChainHandler(svc *polymer.Service, scratch *fsstore.Scratch, maxBytes int64) *ChainHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ChainHandler{svc: svc, scratch: scratch, maxBytes: maxBytes}
}

// Generate handles POST /api/v1/chains/generate with a JSON body of
// polymer.GenerateRequest fields.
func (h *ChainHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req polymer.GenerateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxBytes)).Decode(&req); err != nil {
		writeError(w, errors.CodeInvalidParam, "invalid JSON body: "+err.Error())
		return
	}

	res, err := h.svc.Generate(req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if wantsXYZ(r) {
		writeXYZ(w, res.XYZ)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Repeat handles POST /api/v1/chains/repeat. The monomer document arrives as
// a multipart upload in the "monomer" field; tiling parameters ride along as
// ordinary form values.
func (h *ChainHandler) Repeat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, errors.CodeInvalidParam, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("monomer")
	if err != nil {
		writeError(w, errors.CodeInvalidParam, `missing "monomer" file field`)
		return
	}
	defer file.Close()

	monomer, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.CodeSourceUnavailable, "read monomer upload: "+err.Error())
		return
	}

	// Uploads are staged before parsing so a rejected document can be
	// retrieved for debugging (storage.keep_scratch).
	if h.scratch != nil {
		path, cleanup, serr := h.scratch.Stage("monomer", monomer)
		if serr != nil {
			writeAppError(w, serr)
			return
		}
		defer cleanup()
		if monomer, serr = h.scratch.Read(path); serr != nil {
			writeAppError(w, serr)
			return
		}
	}

	req, perr := repeatRequestFromForm(r)
	if perr != nil {
		writeAppError(w, perr)
		return
	}

	res, err := h.svc.Repeat(monomer, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if wantsXYZ(r) {
		writeXYZ(w, res.XYZ)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Inspect handles POST /api/v1/xyz/inspect. The body is the raw XYZ text;
// ?strict=true switches the parser to strict mode.
func (h *ChainHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxBytes))
	if err != nil {
		writeError(w, errors.CodeSourceUnavailable, "read request body: "+err.Error())
		return
	}

	strict, perr := parseBoolValue(r.URL.Query().Get("strict"), "strict")
	if perr != nil {
		writeAppError(w, perr)
		return
	}

	report, err := h.svc.Inspect(data, strict)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// repeatRequestFromForm decodes the tiling parameters from the multipart
// form values accompanying the upload.
func repeatRequestFromForm(r *http.Request) (polymer.RepeatRequest, error) {
	req := polymer.RepeatRequest{
		Comment: r.FormValue("comment"),
		SaveAs:  r.FormValue("save_as"),
	}

	units, err := parseIntValue(r.FormValue("units"), "units")
	if err != nil {
		return req, err
	}
	req.Units = units

	req.Strict, err = parseBoolValue(r.FormValue("strict"), "strict")
	if err != nil {
		return req, err
	}

	ox, oy, oz := r.FormValue("offset_x"), r.FormValue("offset_y"), r.FormValue("offset_z")
	if ox != "" || oy != "" || oz != "" {
		var off chain.Vec3
		if off.X, err = parseFloatValue(ox, "offset_x"); err != nil {
			return req, err
		}
		if off.Y, err = parseFloatValue(oy, "offset_y"); err != nil {
			return req, err
		}
		if off.Z, err = parseFloatValue(oz, "offset_z"); err != nil {
			return req, err
		}
		req.Offset = &off
	}
	return req, nil
}

func parseIntValue(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidParam("invalid integer value").WithDetail("%s=%q", name, s)
	}
	return n, nil
}

func parseFloatValue(s, name string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.InvalidParam("invalid numeric value").WithDetail("%s=%q", name, s)
	}
	return f, nil
}

func parseBoolValue(s, name string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.InvalidParam("invalid boolean value").WithDetail("%s=%q", name, s)
	}
	return b, nil
}

// wantsXYZ reports whether the client asked for raw XYZ text instead of the
// JSON envelope, via Accept: text/plain or ?format=xyz.
func wantsXYZ(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "xyz") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/plain")
}

func writeXYZ(w http.ResponseWriter, xyz string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, xyz)
}
