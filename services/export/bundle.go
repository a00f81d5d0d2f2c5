package export

import (
	"archive/zip"
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sri-maddineni/college-shortlister/model"
)

// RenderBundle renders the PDF, Word and JSON documents of one snapshot
// concurrently and packs them into a single zip archive.
func RenderBundle(ctx context.Context, records []model.Record, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	snapshot := model.Snapshot(records)

	renderers := []func() (*Document, error){
		func() (*Document, error) { return RenderPDF(snapshot, opts) },
		func() (*Document, error) { return RenderDOCX(snapshot, opts) },
		func() (*Document, error) { return RenderJSON(snapshot) },
	}
	docs := make([]*Document, len(renderers))

	g, gctx := errgroup.WithContext(ctx)
	for i, render := range renderers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := render()
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := opts.Now().UTC()
	for _, doc := range docs {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: doc.Filename, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, &RenderError{Format: FormatBundle, Reason: "create " + doc.Filename, Err: err}
		}
		if _, err := w.Write(doc.Bytes); err != nil {
			return nil, &RenderError{Format: FormatBundle, Reason: "write " + doc.Filename, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: FormatBundle, Reason: "close archive", Err: err}
	}

	bundle := newDocument(FormatBundle, buf.Bytes(), len(snapshot), docs[0].Warnings)
	bundle.Pages = docs[0].Pages
	return bundle, nil
}
