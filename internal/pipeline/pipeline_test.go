package pipeline

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlbbweb/texconv/internal/config"
	"github.com/tlbbweb/texconv/internal/logging"
	"github.com/tlbbweb/texconv/internal/report"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.tga")
	touch(t, dir, "B.DDS")
	touch(t, dir, "c.Tga")
	touch(t, dir, "icon.png")
	touch(t, dir, "readme.txt")
	touch(t, dir, "tga")

	files, err := Discover(dir, true, &warnRecorder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.DDS", "a.tga", "c.Tga"}, basenames(files))
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Material", "Common"), "UIIcons.tga")
	touch(t, filepath.Join(dir, "Material", "Common"), "Button.dds")
	touch(t, filepath.Join(dir, "Effects"), "glow.dds")
	touch(t, dir, "top.tga")

	files, err := Discover(dir, true, &warnRecorder{})
	require.NoError(t, err)
	require.Len(t, files, 4)
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1], files[i])
	}
}

func TestDiscover_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.tga")
	touch(t, filepath.Join(dir, "sub"), "nested.tga")

	files, err := Discover(dir, false, &warnRecorder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"top.tga"}, basenames(files))
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := Discover(t.TempDir(), true, &warnRecorder{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), true, &warnRecorder{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_SkipsUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	touch(t, dir, "ok.tga")
	locked := filepath.Join(dir, "locked")
	touch(t, locked, "hidden.tga")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	w := &warnRecorder{}
	files, err := Discover(dir, true, w)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.tga"}, basenames(files))
	assert.Len(t, w.lines, 1)
}

// --- RunStats tests ---

func TestRunStats(t *testing.T) {
	s := RunStats{Total: 5, Converted: 3, TotalInputBytes: 1000, TotalOutputBytes: 1500}
	assert.Equal(t, 2, s.Failed())
	assert.Equal(t, int64(500), s.SizeDelta())

	var zero RunStats
	assert.Zero(t, zero.Failed())
}

// --- Run tests ---

func TestRun_MixedScenario(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	write(t, filepath.Join(in, "icons", "a.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "icons", "b.dds"), corruptDDS())
	write(t, filepath.Join(in, "readme.txt"), []byte("not a texture"))

	cfg := testConfig(in, out)
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Converted)
	assert.Equal(t, 1, stats.Failed())
	assert.Equal(t, stats.Total, stats.Converted+stats.Failed())

	assert.FileExists(t, filepath.Join(out, "icons", "a.png"))
	assert.NoFileExists(t, filepath.Join(out, "icons", "b.png"))
	assert.NoFileExists(t, filepath.Join(out, "readme.png"))
	assert.NoFileExists(t, filepath.Join(out, "readme.txt"))
}

func TestRun_MirrorsNestedStructure(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "Material", "Common", "UIIcons.tga"), tgaFixture(4, 2))
	write(t, filepath.Join(in, "A", "B", "x.TGA"), tgaFixture(1, 1))

	cfg := testConfig(in, out)
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Converted)
	assert.FileExists(t, filepath.Join(out, "Material", "Common", "UIIcons.png"))
	assert.FileExists(t, filepath.Join(out, "A", "B", "x.png"))
	assert.Positive(t, stats.TotalInputBytes)
	assert.Positive(t, stats.TotalOutputBytes)
}

func TestRun_OutputDefaultsToInputRoot(t *testing.T) {
	in := t.TempDir()
	write(t, filepath.Join(in, "sub", "a.tga"), tgaFixture(2, 2))

	cfg := testConfig(in, "")
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Converted)
	assert.FileExists(t, filepath.Join(in, "sub", "a.png"))
	assert.FileExists(t, filepath.Join(in, "sub", "a.tga"))
}

func TestRun_Idempotent(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "a.tga"), tgaFixture(3, 3))
	write(t, filepath.Join(in, "b.dds"), corruptDDS())

	cfg := testConfig(in, out)
	first, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)
	png1, err := os.ReadFile(filepath.Join(out, "a.png"))
	require.NoError(t, err)

	second, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)
	png2, err := os.ReadFile(filepath.Join(out, "a.png"))
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Converted, second.Converted)
	assert.Equal(t, png1, png2)
}

func TestRun_FailureDoesNotAbortSiblings(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "0_bad.tga"), []byte("definitely not a targa file"))
	write(t, filepath.Join(in, "1_good.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "2_bad.dds"), corruptDDS())
	write(t, filepath.Join(in, "3_good.tga"), tgaFixture(2, 2))

	cfg := testConfig(in, out)
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Converted)
	assert.FileExists(t, filepath.Join(out, "1_good.png"))
	assert.FileExists(t, filepath.Join(out, "3_good.png"))
}

func TestRun_NonRecursive(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "top.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "sub", "nested.tga"), tgaFixture(2, 2))

	cfg := testConfig(in, out)
	cfg.Recursive = false
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Total)
	assert.FileExists(t, filepath.Join(out, "top.png"))
	assert.NoDirExists(t, filepath.Join(out, "sub"))
}

func TestRun_CollisionKeepsLowercaseTGA(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "icon.TGA"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "icon.tga"), tgaFixture(3, 3))
	entries, err := os.ReadDir(in)
	require.NoError(t, err)
	if len(entries) != 2 {
		t.Skip("case-insensitive filesystem")
	}

	cfg := testConfig(in, out)
	log, stdout, _ := captureLogger(t, &cfg)
	stats, err := Run(&cfg, log)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Converted)
	assertPNGSize(t, filepath.Join(out, "icon.png"), 3, 3)
	assertPNGSize(t, filepath.Join(out, "icon.TGA.png"), 2, 2)
	assert.Contains(t, stdout.String(), "Output collision: icon.TGA shares its .png name, writing icon.TGA.png")
}

func TestRun_CollisionPrefersTGAOverDDS(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "ui", "x.dds"), ddsFixture(4, 4))
	write(t, filepath.Join(in, "ui", "x.tga"), tgaFixture(2, 2))

	cfg := testConfig(in, out)
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Converted)
	assertPNGSize(t, filepath.Join(out, "ui", "x.png"), 2, 2)
	assertPNGSize(t, filepath.Join(out, "ui", "x.dds.png"), 4, 4)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	write(t, filepath.Join(in, "sub", "a.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "b.dds"), corruptDDS())

	cfg := testConfig(in, out)
	cfg.DryRun = true
	stats, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Converted)
	assert.NoDirExists(t, out)
}

func TestRun_WritesManifest(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(in, "icons", "a.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "icons", "b.dds"), corruptDDS())

	cfg := testConfig(in, out)
	cfg.Manifest = filepath.Join(t.TempDir(), "manifest.toml")
	_, err := Run(&cfg, testLogger(t, &cfg))
	require.NoError(t, err)

	m, err := report.Read(cfg.Manifest)
	require.NoError(t, err)
	assert.Equal(t, report.Summary{
		Total:       2,
		Converted:   1,
		Failed:      1,
		InputBytes:  m.Summary.InputBytes,
		OutputBytes: m.Summary.OutputBytes,
	}, m.Summary)
	require.Len(t, m.Files, 2)

	assert.Equal(t, report.StatusConverted, m.Files[0].Status)
	assert.Equal(t, "tga", m.Files[0].Format)
	assert.Equal(t, "RGB", m.Files[0].Mode)
	assert.Equal(t, filepath.Join(out, "icons", "a.png"), m.Files[0].Output)

	assert.Equal(t, report.StatusFailed, m.Files[1].Status)
	assert.NotEmpty(t, m.Files[1].Error)
}

func TestRun_MissingInputRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	_, err := Run(&cfg, testLogger(t, &cfg))
	assert.Error(t, err)
}

func TestRun_SummaryLines(t *testing.T) {
	in := t.TempDir()
	write(t, filepath.Join(in, "a.tga"), tgaFixture(2, 2))
	write(t, filepath.Join(in, "b.dds"), corruptDDS())

	cfg := testConfig(in, t.TempDir())
	log, stdout, stderr := captureLogger(t, &cfg)
	_, err := Run(&cfg, log)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Conversion Summary:")
	assert.Contains(t, stdout.String(), "Total files: 2")
	assert.Contains(t, stdout.String(), "Converted: 1")
	assert.Contains(t, stdout.String(), "Failed: 1")
	assert.Contains(t, stderr.String(), "Error converting "+filepath.Join(in, "b.dds"))
}

// --- Helpers ---

type warnRecorder struct {
	lines []string
}

func (w *warnRecorder) Warn(format string, args ...interface{}) {
	w.lines = append(w.lines, format)
}

func testConfig(in, out string) config.Config {
	cfg := config.DefaultConfig()
	cfg.Input = in
	cfg.Output = out
	cfg.ColorMode = config.ColorNever
	return cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	log.SetOutput(io.Discard, io.Discard)
	return log
}

func captureLogger(t *testing.T, cfg *config.Config) (*logging.Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	log := testLogger(t, cfg)
	var stdout, stderr bytes.Buffer
	log.SetOutput(&stdout, &stderr)
	return log, &stdout, &stderr
}

// tgaFixture builds an uncompressed 24-bit top-left-origin TGA.
func tgaFixture(w, h int) []byte {
	out := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, byte(w), byte(w >> 8), byte(h), byte(h >> 8), 24, 0x20}
	for i := 0; i < w*h; i++ {
		out = append(out, 0x10, 0x80, 0xf0)
	}
	return out
}

// ddsFixture builds an uncompressed 24-bit DDS surface.
func ddsFixture(w, h int) []byte {
	hdr := make([]byte, 128)
	copy(hdr, "DDS ")
	le := binary.LittleEndian
	le.PutUint32(hdr[4:], 124)
	le.PutUint32(hdr[8:], 0x1007) // CAPS | HEIGHT | WIDTH | PIXELFORMAT
	le.PutUint32(hdr[12:], uint32(h))
	le.PutUint32(hdr[16:], uint32(w))
	le.PutUint32(hdr[76:], 32)
	le.PutUint32(hdr[80:], 0x40) // RGB
	le.PutUint32(hdr[88:], 24)
	le.PutUint32(hdr[108:], 0x1000) // TEXTURE
	return append(hdr, bytes.Repeat([]byte{0x10, 0x80, 0xf0}, w*h)...)
}

func assertPNGSize(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, [2]int{w, h}, [2]int{cfg.Width, cfg.Height}, path)
}

// corruptDDS has the DDS magic but a truncated header.
func corruptDDS() []byte {
	return append([]byte("DDS "), bytes.Repeat([]byte{0xab}, 40)...)
}

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	write(t, filepath.Join(dir, name), nil)
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
