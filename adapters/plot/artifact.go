// Package plot renders chart artifacts for the analysis pipeline. Every
// renderer produces a base64-encoded PNG; a failed render yields an error
// and no artifact, never a broken entry.
package plot

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"edanalyzer/internal/errors"
)

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 5 * vg.Inch
)

// encodePNG renders a plot to a base64 PNG string
func encodePNG(p *plot.Plot) (string, error) {
	return encodePNGSized(p, defaultWidth, defaultHeight)
}

func encodePNGSized(p *plot.Plot, width, height vg.Length) (string, error) {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to create PNG writer"), err.Error())
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to render PNG"), err.Error())
	}
	if buf.Len() == 0 {
		return "", errors.PlotGeneration("rendered PNG is empty")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// UniqueKey returns key, or key with a numeric suffix when it already exists
// in the artifact map. AI-assigned plot names must never clobber static ones.
func UniqueKey(existing map[string]string, key string) string {
	if _, taken := existing[key]; !taken {
		return key
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", key, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
