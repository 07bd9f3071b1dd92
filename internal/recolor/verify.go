package recolor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
)

type Mismatch struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type VerifyReport struct {
	Checked    int        `json:"checked"`
	Missing    []string   `json:"missing"`
	Extra      []string   `json:"extra"`
	Mismatches []Mismatch `json:"mismatches"`
	// Skipped sources have no <svg> root tag and are copied through as is.
	Skipped []string `json:"skipped"`
}

func (r VerifyReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Mismatches) == 0
}

// Verify checks that dst holds one converted icon per icon in src and that
// every output's root svg element carries exactly one fill equal to fill.
// It never writes.
func Verify(fs afero.Fs, src, dst, fill string) (VerifyReport, error) {
	if fill == "" {
		fill = DefaultFill
	}
	vr := VerifyReport{Missing: []string{}, Extra: []string{}, Mismatches: []Mismatch{}, Skipped: []string{}}

	in, err := Scan(fs, src)
	if err != nil {
		return vr, err
	}
	out, err := Scan(fs, dst)
	if err != nil {
		return vr, err
	}

	outSet := make(map[string]bool, len(out))
	for _, n := range out {
		outSet[n] = true
	}
	for _, n := range in {
		if !outSet[n] {
			vr.Missing = append(vr.Missing, n)
			continue
		}
		delete(outSet, n)

		icon, err := ReadIcon(fs, src, n)
		if err != nil {
			return vr, err
		}
		if !rootTagRe.MatchString(icon.Content) {
			vr.Skipped = append(vr.Skipped, n)
			continue
		}

		vr.Checked++
		if reason, err := checkIcon(fs, filepath.Join(dst, n), fill); err != nil {
			return vr, err
		} else if reason != "" {
			vr.Mismatches = append(vr.Mismatches, Mismatch{Name: n, Reason: reason})
		}
	}
	for n := range outSet {
		vr.Extra = append(vr.Extra, n)
	}
	sort.Strings(vr.Extra)

	return vr, nil
}

func checkIcon(fs afero.Fs, path, fill string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", &PathError{Op: "read", Path: path, Err: err}
	}

	tag := rootTagRe.Find(data)
	if tag == nil {
		return "no <svg> root tag", nil
	}
	if n := len(fillAttrRe.FindAll(tag, -1)); n != 1 {
		return fmt.Sprintf("root tag has %d fill attributes", n), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &PathError{Op: "parse", Path: path, Err: err}
	}
	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return "no svg element", nil
	}
	got, ok := root.Attr("fill")
	if !ok {
		return "svg element has no fill", nil
	}
	if got != fill {
		return fmt.Sprintf("fill is %q, want %q", got, fill), nil
	}
	return "", nil
}
