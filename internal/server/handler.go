package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
)

// DigestHeader carries the pack's content digest.
const DigestHeader = "X-Pack-Digest"

type healthResponse struct {
	OK      bool   `json:"ok"`
	Storage string `json:"storage"`
}

// ExportPack builds a pack from the JSON body and returns it as a ZIP
// attachment. A body that is empty or not a valid request yields a pack
// made entirely of defaults.
func (s *Server) ExportPack(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, r, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		ErrorResponse(w, r, http.StatusBadRequest, "reading request body", err)
		return
	}

	req, err := pack.ParseRequest(body)
	if err != nil {
		slog.Warn("malformed export request, using defaults",
			"request_id", RequestIDFrom(r.Context()),
			"error", err,
		)
	}

	p := pack.Build(req, s.cfg.Defaults)

	if s.cfg.Server.ArchiveExports {
		res, err := s.saver.Save(s.cfg, p)
		if err != nil {
			ErrorResponse(w, r, http.StatusInternalServerError, "saving pack", err)
			return
		}
		slog.Info("pack archived",
			"request_id", RequestIDFrom(r.Context()),
			"slug", res.Slug,
			"file", res.File,
			"pruned", len(res.Pruned),
		)
	}

	w.Header().Set(DigestHeader, p.Digest.String())
	ZipResponse(w, p.FileName, p.Data)
}

// Health reports whether the pack history directory is usable. Storage is
// only probed when exports are archived.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Server.ArchiveExports {
		if err := s.probeStorage(); err != nil {
			slog.Error("storage check failed", "request_id", RequestIDFrom(r.Context()), "error", err)
			JSONResponse(w, http.StatusInternalServerError, healthResponse{OK: false, Storage: "down"})
			return
		}
	}
	JSONResponse(w, http.StatusOK, healthResponse{OK: true, Storage: "up"})
}

func (s *Server) probeStorage() error {
	dir, err := config.ExpandPath(s.cfg.OutputDir)
	if err != nil {
		return err
	}
	return s.fs.MkdirAll(dir, 0755)
}

func (s *Server) maxBodyBytes() int64 {
	if n := s.cfg.Server.MaxBodyBytes; n > 0 {
		return n
	}
	return 1 << 20
}
