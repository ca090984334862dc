// Package pdfreader provides the PDFReader capability spec.md names for
// attaching a seed PDF to an LLM call and inferring its arXiv ID (§4.4).
// Full text extraction is out of scope (the model backends accept raw
// PDF bytes as an Attachment, §6); this package only sniffs that a
// downloaded file genuinely is a PDF before it is attached, and reads
// its bytes for that attachment.
//
// Grounded on gabriel-vasile/mimetype, present in the teacher's go.mod
// and used here for content-based detection rather than trusting a
// ".pdf" file extension, since §4.2 step 5 downloads files under
// arbitrary arXiv-assigned names.
package pdfreader

import (
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// Reader sniffs and loads PDF files from the workspace's downloads
// directories.
type Reader struct{}

// New constructs a Reader. It holds no state; it exists as a type so
// call sites can depend on an interface instead of bare functions.
func New() *Reader { return &Reader{} }

// IsPDF reports whether the file at path is a PDF by content, not by
// its extension.
func (r *Reader) IsPDF(path string) (bool, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false, xerrors.Wrap(err, xerrors.ConfigError, "detect file type")
	}
	return mtype.Is("application/pdf"), nil
}

// Load reads path's raw bytes for attachment to an LLM call, failing if
// the file does not sniff as a PDF.
func (r *Reader) Load(path string) ([]byte, error) {
	ok, err := r.IsPDF(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.Newf(xerrors.ValidationError, "%s is not a PDF", path)
	}
	return os.ReadFile(path)
}
