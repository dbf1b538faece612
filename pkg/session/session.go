// Package session drives a validation run: it classifies artifacts by
// filename, dispatches each to the right checker, annotates diagnostics
// with source locations, and aggregates per-file results. Files are
// processed in sorted-path order so results are reproducible; no state
// is shared between files.
package session

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/config"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/locate"
	"github.com/ormasoftchile/ngslint/pkg/logging"
	"github.com/ormasoftchile/ngslint/pkg/manifest"
	"github.com/ormasoftchile/ngslint/pkg/validate"
)

// ArtifactKind classifies an input file by name.
type ArtifactKind string

const (
	ArtifactTransformManifest ArtifactKind = "transform-manifest"
	ArtifactManifest          ArtifactKind = "manifest"
	ArtifactKQL               ArtifactKind = "kql"
	ArtifactSampleJSON        ArtifactKind = "sample-json"
	ArtifactUnrecognized      ArtifactKind = "unrecognized"
	ArtifactFolderAudit       ArtifactKind = "folder-audit"
)

// Result statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// ValidationResult is the per-file outcome surfaced to presentation.
// Diagnostics holds error-severity findings, Warnings the rest; Status
// is fail iff Diagnostics is non-empty.
type ValidationResult struct {
	FileName      string                   `json:"fileName"`
	RelativePath  string                   `json:"relativePath"`
	ArtifactKind  ArtifactKind             `json:"artifactKind"`
	Status        string                   `json:"status"`
	Diagnostics   []*diagnostic.Diagnostic `json:"diagnostics"`
	Warnings      []*diagnostic.Diagnostic `json:"warnings"`
	RawText       string                   `json:"rawText,omitempty"`
	FileSizeBytes int                      `json:"fileSizeBytes"`
	IsFolderAudit bool                     `json:"isFolderAudit,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	Files    int `json:"files"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// RunResult is the ordered result list plus its summary.
type RunResult struct {
	Results []*ValidationResult `json:"results"`
	Summary Summary             `json:"summary"`
}

// Failed reports whether any file failed. With strict set, warnings
// count against the run as well.
func (r *RunResult) Failed(strict bool) bool {
	if r.Summary.Failed > 0 {
		return true
	}
	return strict && r.Summary.Warnings > 0
}

// Session owns one validation run's configuration and compiled custom
// rules. Create one per run; the zero value validates with defaults.
type Session struct {
	cfg       *config.Config
	rules     []validate.CompiledRule
	ruleDiags []*diagnostic.Diagnostic
}

// New builds a session. cfg may be nil. Custom rules that fail to
// compile surface as diagnostics on a synthetic config result in Run
// rather than aborting.
func New(cfg *config.Config) *Session {
	s := &Session{cfg: cfg}
	if cfg != nil {
		s.rules, s.ruleDiags = cfg.CompiledRules()
	}
	return s
}

// Classify maps a filename to its artifact kind. Precedence matters:
// *.transform.manifest.json is also a *.manifest.json suffix match.
func Classify(name string) ArtifactKind {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasSuffix(base, ".transform.manifest.json"):
		return ArtifactTransformManifest
	case strings.HasSuffix(base, ".manifest.json"):
		return ArtifactManifest
	case strings.HasSuffix(base, ".kql"):
		return ArtifactKQL
	case strings.HasSuffix(base, ".json"):
		return ArtifactSampleJSON
	default:
		return ArtifactUnrecognized
	}
}

// ValidateBytes validates one artifact from memory. This is the pure
// core behind ValidateFile and the MCP tools.
func (s *Session) ValidateBytes(relPath string, data []byte) *ValidationResult {
	kind := Classify(relPath)
	raw := string(data)
	res := &ValidationResult{
		FileName:      filepath.Base(relPath),
		RelativePath:  filepath.ToSlash(relPath),
		ArtifactKind:  kind,
		RawText:       raw,
		FileSizeBytes: len(data),
	}

	var diags []*diagnostic.Diagnostic
	switch kind {
	case ArtifactManifest, ArtifactTransformManifest:
		diags = s.validateManifestBytes(kind, data, raw)
	case ArtifactKQL:
		diags = checkKQL(raw)
	case ArtifactSampleJSON:
		diags = checkSampleData(data)
	default:
		d := diagnostic.New(diagnostic.KindFormattingError, "",
			"unrecognized artifact type; expected *.manifest.json, *.transform.manifest.json, *.kql or *.json")
		d.Severity = diagnostic.SeverityWarning
		diags = []*diagnostic.Diagnostic{d}
	}

	res.finish(s.cfg.Apply(diags))
	return res
}

func (s *Session) validateManifestBytes(kind ArtifactKind, data []byte, raw string) []*diagnostic.Diagnostic {
	doc, err := manifest.Decode(data)
	if err != nil {
		// Parse failure is fatal for this file: one diagnostic, no
		// structural checks.
		d := diagnostic.New(diagnostic.KindJSONSyntaxError, "", err.Error())
		return []*diagnostic.Diagnostic{d}
	}

	var diags []*diagnostic.Diagnostic
	if kind == ArtifactTransformManifest {
		diags = validate.ValidateTransformManifest(doc)
	} else {
		diags = validate.ValidateManifest(doc)
		diags = append(diags, validate.RunCustomRules(doc, s.rules)...)
	}
	locate.Annotate(raw, diags)
	return diags
}

// ValidateFile reads and validates path, reporting it as rel. An I/O
// failure becomes the file's single diagnostic; it never aborts the
// batch.
func (s *Session) ValidateFile(path, rel string) *ValidationResult {
	logging.Sugar.Debugw("validating", "path", rel)
	data, err := os.ReadFile(path)
	if err != nil {
		res := &ValidationResult{
			FileName:     filepath.Base(rel),
			RelativePath: filepath.ToSlash(rel),
			ArtifactKind: Classify(rel),
		}
		d := diagnostic.New(diagnostic.KindJSONSyntaxError, "",
			fmt.Sprintf("read file: %v", err))
		res.finish([]*diagnostic.Diagnostic{d})
		return res
	}
	return s.ValidateBytes(rel, data)
}

// Run validates every argument. File arguments are validated directly;
// directory arguments are walked recursively and additionally get a
// folder-structure audit. Results come back in sorted relative-path
// order, audits last, preceded by a synthetic config result when custom
// rules failed to compile.
func (s *Session) Run(paths []string) (*RunResult, error) {
	type item struct{ abs, rel string }
	var items []item
	var auditDirs []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			items = append(items, item{abs: p, rel: filepath.Base(p)})
			continue
		}
		auditDirs = append(auditDirs, p)
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); strings.HasPrefix(name, ".") && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			rel, rerr := filepath.Rel(p, path)
			if rerr != nil {
				return rerr
			}
			items = append(items, item{abs: path, rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].rel < items[j].rel })

	run := &RunResult{}
	if len(s.ruleDiags) > 0 {
		res := &ValidationResult{
			FileName:     "config.yaml",
			RelativePath: ".ngslint/config.yaml",
			ArtifactKind: ArtifactUnrecognized,
		}
		res.finish(s.ruleDiags)
		run.add(res)
	}
	for _, it := range items {
		run.add(s.ValidateFile(it.abs, it.rel))
	}
	for _, dir := range auditDirs {
		run.add(s.auditFolder(dir))
	}
	return run, nil
}

func (r *RunResult) add(res *ValidationResult) {
	r.Results = append(r.Results, res)
	r.Summary.Files++
	if res.Status == StatusFail {
		r.Summary.Failed++
	} else {
		r.Summary.Passed++
	}
	r.Summary.Errors += len(res.Diagnostics)
	r.Summary.Warnings += len(res.Warnings)
}

// finish splits diagnostics by severity and derives the status.
func (res *ValidationResult) finish(diags []*diagnostic.Diagnostic) {
	res.Diagnostics, res.Warnings = diagnostic.Split(diags)
	if len(res.Diagnostics) > 0 {
		res.Status = StatusFail
	} else {
		res.Status = StatusPass
	}
}

// checkKQL is deliberately superficial: non-empty, and at least one
// recognizable query keyword. Anything deeper is the query engine's
// business, not the linter's.
func checkKQL(raw string) []*diagnostic.Diagnostic {
	if strings.TrimSpace(raw) == "" {
		d := diagnostic.New(diagnostic.KindFormattingError, "", "KQL file is empty")
		return []*diagnostic.Diagnostic{d}
	}
	lower := strings.ToLower(raw)
	for _, kw := range catalog.KQLKeywords {
		if strings.Contains(lower, kw) {
			return nil
		}
	}
	d := diagnostic.New(diagnostic.KindFormattingError, "",
		fmt.Sprintf("no KQL keyword found (expected one of: %s)", strings.Join(catalog.KQLKeywords, ", ")))
	d.Severity = diagnostic.SeverityWarning
	return []*diagnostic.Diagnostic{d}
}

// checkSampleData requires a parseable JSON array. A bare object gets an
// invalid_json_structure diagnostic whose suggestion is the same object
// wrapped in a one-element array.
func checkSampleData(data []byte) []*diagnostic.Diagnostic {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		d := diagnostic.New(diagnostic.KindJSONSyntaxError, "", err.Error())
		return []*diagnostic.Diagnostic{d}
	}
	if _, ok := doc.([]any); ok {
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	d := diagnostic.New(diagnostic.KindInvalidJSONStructure, "",
		fmt.Sprintf("sample data must be a JSON array of records, found %s", manifest.TypeName(doc)))
	d.CurrentValue = trimmed
	d.Suggestion = "[" + trimmed + "]"
	return []*diagnostic.Diagnostic{d}
}

// auditFolder checks the onboarding package layout. It is a sibling
// check: its findings never block per-file validation.
func (s *Session) auditFolder(dir string) *ValidationResult {
	res := &ValidationResult{
		FileName:      filepath.Base(dir),
		RelativePath:  filepath.ToSlash(dir),
		ArtifactKind:  ArtifactFolderAudit,
		IsFolderAudit: true,
	}

	var diags []*diagnostic.Diagnostic
	for _, want := range catalog.AuditDirectories {
		info, err := os.Stat(filepath.Join(dir, want))
		if err != nil || !info.IsDir() {
			d := diagnostic.New(diagnostic.KindMissingField, want,
				fmt.Sprintf("required directory %q is missing", want))
			diags = append(diags, d)
		}
	}

	manifests, kqls, samples := 0, 0, 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch Classify(path) {
		case ArtifactManifest:
			manifests++
		case ArtifactKQL:
			kqls++
		case ArtifactSampleJSON:
			samples++
		}
		return nil
	})

	switch {
	case manifests == 0:
		diags = append(diags, diagnostic.New(diagnostic.KindMissingField, "",
			"package contains no *.manifest.json file"))
	case manifests > 1:
		d := diagnostic.New(diagnostic.KindInvalidValue, "",
			fmt.Sprintf("package contains %d manifest files, expected exactly one", manifests))
		d.Severity = diagnostic.SeverityWarning
		diags = append(diags, d)
	}
	if kqls == 0 {
		d := diagnostic.New(diagnostic.KindMissingField, "", "package contains no .kql files")
		d.Severity = diagnostic.SeverityWarning
		diags = append(diags, d)
	}
	if samples == 0 {
		d := diagnostic.New(diagnostic.KindMissingField, "", "package contains no sample data JSON files")
		d.Severity = diagnostic.SeverityWarning
		diags = append(diags, d)
	}

	res.finish(s.cfg.Apply(diags))
	return res
}
