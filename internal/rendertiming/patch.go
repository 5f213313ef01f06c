package rendertiming

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"reeltime/internal/logging"
	"reeltime/internal/services"
)

// The timing source is a TypeScript constants file owned by the render
// project. Two shapes are in the wild:
//
//	(a) a frame-count table plus a cumulative-start table of integers
//	(b) a single table of { startSeconds, durationSeconds } objects plus
//	    an aggregate total constant
//
// The patcher inspects the file, regenerates only the matching block(s)
// from the computed table, and leaves every other byte alone.

var (
	constBlockRe = regexp.MustCompile(`(?ms)^export const (\w+)(\s*:\s*[^=\n]+)?\s*=\s*\{(.*?)\}(\s*as const)?;`)
	intEntryRe   = regexp.MustCompile(`^\s*(?:"([^"]+)"|([\w$]+))\s*:\s*(\d+)\s*,?\s*$`)
	objEntryRe   = regexp.MustCompile(`^\s*(?:"([^"]+)"|([\w$]+))\s*:\s*\{\s*startSeconds:\s*[\d.]+\s*,\s*durationSeconds:\s*[\d.]+\s*\}\s*,?\s*$`)
	totalConstRe = regexp.MustCompile(`(?m)^export const (\w*TOTAL\w*)(\s*:\s*number)?\s*=\s*[\d.]+;$`)
	markerRe     = regexp.MustCompile(`(?m)^// Scene timing last updated: .*$`)
)

// Patcher rewrites the render project's timing constants in place.
type Patcher struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewPatcher returns a patcher for the timing file at path.
func NewPatcher(path string, logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Patcher{path: path, logger: logger, now: time.Now}
}

type constBlock struct {
	name    string
	start   int
	end     int
	asConst bool
	isInt   bool
	isObj   bool
}

// Apply patches the timing file from the computed table. It returns true
// when any timing value changed; a run with unchanged inputs rewrites only
// the "last updated" marker and returns false.
func (p *Patcher) Apply(table *Table) (bool, error) {
	lock := flock.New(p.path + ".lock")
	if err := lock.Lock(); err != nil {
		return false, services.Wrap(services.ErrTransient, "sync", "lock", "acquiring timing file lock", err)
	}
	defer lock.Unlock()

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return false, services.Wrap(services.ErrConfiguration, "sync", "read", "reading render timing source", err)
	}
	content := string(raw)

	blocks := findConstBlocks(content)
	frameTables, objTables := classify(blocks)

	var patched string
	switch {
	case len(objTables) > 0:
		patched = p.patchBlocks(content, objTables, func(b constBlock) string {
			return renderObjectTable(b, table)
		})
	case len(frameTables) > 0:
		patched = p.patchBlocks(content, frameTables, func(b constBlock) string {
			if strings.Contains(strings.ToUpper(b.name), "START") {
				return renderIntTable(b, table, func(e SceneFrameEntry) int { return e.StartFrame })
			}
			return renderIntTable(b, table, func(e SceneFrameEntry) int { return e.TotalFrames })
		})
	default:
		return false, services.Wrap(services.ErrValidation, "sync", "detect",
			fmt.Sprintf("no scene timing table found in %s", p.path), nil)
	}

	patched = patchTotals(patched, table)
	changed := patched != content
	patched = p.stampMarker(patched)

	if err := writeFileAtomic(p.path, []byte(patched)); err != nil {
		return false, services.Wrap(services.ErrTransient, "sync", "write", "writing render timing source", err)
	}
	if changed {
		p.logger.Info("render timing updated",
			"path", p.path, "scenes", len(table.Entries), "total_frames", table.TotalFrames())
	} else {
		p.logger.Debug("render timing unchanged", "path", p.path)
	}
	return changed, nil
}

func findConstBlocks(content string) []constBlock {
	var blocks []constBlock
	for _, m := range constBlockRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		body := content[m[6]:m[7]]
		block := constBlock{
			name:    name,
			start:   m[0],
			end:     m[1],
			asConst: m[8] >= 0,
		}
		block.isInt, block.isObj = inspectBody(body)
		if block.isInt || block.isObj {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// inspectBody reports whether every non-empty line of an object literal is
// an integer entry or a { startSeconds, durationSeconds } entry.
func inspectBody(body string) (allInt, allObj bool) {
	allInt, allObj = true, true
	seen := false
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen = true
		if !intEntryRe.MatchString(line) {
			allInt = false
		}
		if !objEntryRe.MatchString(line) {
			allObj = false
		}
	}
	if !seen {
		return false, false
	}
	return allInt, allObj
}

func classify(blocks []constBlock) (frameTables, objTables []constBlock) {
	for _, b := range blocks {
		switch {
		case b.isObj:
			objTables = append(objTables, b)
		case b.isInt:
			frameTables = append(frameTables, b)
		}
	}
	return frameTables, objTables
}

// patchBlocks replaces each block from back to front so earlier offsets
// stay valid.
func (p *Patcher) patchBlocks(content string, blocks []constBlock, render func(constBlock) string) string {
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		content = content[:b.start] + render(b) + content[b.end:]
	}
	return content
}

func renderIntTable(b constBlock, table *Table, value func(SceneFrameEntry) int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export const %s = {\n", b.name)
	for _, entry := range table.Entries {
		fmt.Fprintf(&sb, "  %s: %d,\n", tsKey(entry.SceneID), value(entry))
	}
	sb.WriteString("}")
	if b.asConst {
		sb.WriteString(" as const")
	}
	sb.WriteString(";")
	return sb.String()
}

func renderObjectTable(b constBlock, table *Table) string {
	fps := float64(table.FPS)
	var sb strings.Builder
	fmt.Fprintf(&sb, "export const %s = {\n", b.name)
	for _, entry := range table.Entries {
		fmt.Fprintf(&sb, "  %s: { startSeconds: %s, durationSeconds: %s },\n",
			tsKey(entry.SceneID),
			formatSeconds(float64(entry.StartFrame)/fps),
			formatSeconds(float64(entry.TotalFrames)/fps))
	}
	sb.WriteString("}")
	if b.asConst {
		sb.WriteString(" as const")
	}
	sb.WriteString(";")
	return sb.String()
}

// patchTotals refreshes any exported TOTAL constant. Names mentioning
// frames get the frame count, anything else gets seconds.
func patchTotals(content string, table *Table) string {
	return totalConstRe.ReplaceAllStringFunc(content, func(match string) string {
		m := totalConstRe.FindStringSubmatch(match)
		name := m[1]
		annotation := m[2]
		if strings.Contains(strings.ToUpper(name), "FRAME") {
			return fmt.Sprintf("export const %s%s = %d;", name, annotation, table.TotalFrames())
		}
		return fmt.Sprintf("export const %s%s = %s;", name, annotation, formatSeconds(table.TotalSeconds()))
	})
}

// stampMarker rewrites the single "last updated" comment, adding one at the
// top of the file when the file has never been patched.
func (p *Patcher) stampMarker(content string) string {
	marker := "// Scene timing last updated: " + p.now().UTC().Format(time.RFC3339)
	if markerRe.MatchString(content) {
		return markerRe.ReplaceAllString(content, marker)
	}
	return marker + "\n" + content
}

var tsIdentRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

func tsKey(id string) string {
	if tsIdentRe.MatchString(id) {
		return id
	}
	return strconv.Quote(id)
}

// formatSeconds rounds to four decimal places and trims trailing zeros so
// repeated runs over the same inputs emit identical text.
func formatSeconds(v float64) string {
	rounded := math.Round(v*10000) / 10000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".timing-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
