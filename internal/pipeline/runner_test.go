package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/ironsheep/rawconv/internal/config"
	"github.com/ironsheep/rawconv/internal/exposure"
	"github.com/ironsheep/rawconv/internal/imaging"
	"github.com/ironsheep/rawconv/internal/logging"
)

var errCorrupt = errors.New("cannot decode file")

// fakeDecoder returns a prepared image per base name; unknown names fail.
type fakeDecoder struct {
	images map[string]*image.RGBA
	calls  []string
}

func (d *fakeDecoder) Decode(_ context.Context, path string) (*image.RGBA, error) {
	d.calls = append(d.calls, filepath.Base(path))
	img, ok := d.images[filepath.Base(path)]
	if !ok {
		return nil, errCorrupt
	}
	return img, nil
}

// recordingEncoder writes with the real encoder and keeps what it was given.
type recordingEncoder struct {
	inner   imaging.Encoder
	encoded map[string]*image.RGBA
}

func newRecordingEncoder() *recordingEncoder {
	return &recordingEncoder{inner: imaging.NewFileEncoder(90), encoded: map[string]*image.RGBA{}}
}

func (e *recordingEncoder) Encode(img image.Image, path string) error {
	e.encoded[filepath.Base(path)] = img.(*image.RGBA)
	return e.inner.Encode(img, path)
}

// silentEncoder reports success without writing anything.
type silentEncoder struct{}

func (silentEncoder) Encode(image.Image, string) error { return nil }

// failingEncoder always fails.
type failingEncoder struct{}

func (failingEncoder) Encode(image.Image, string) error { return errors.New("disk full") }

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// darkImage has 20% black pixels and a mid-gray remainder.
func darkImage() *image.RGBA {
	img := solid(color.RGBA{100, 100, 100, 255})
	for i := 0; i < 20; i++ {
		img.SetRGBA(i%10, i/10, color.RGBA{0, 0, 0, 255})
	}
	return img
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Root = root
	return &cfg
}

func newRunner(t *testing.T, dec imaging.Decoder, enc imaging.Encoder) (*Runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Level: "debug", Format: "console", Color: "never", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New failed: %v", err)
	}
	return NewRunner(dec, enc, log), &buf
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "2024/trip/day1/cam/A.dng")
	b := touch(t, root, "2024/trip/day1/cam/B.dng")
	c := touch(t, root, "2024/trip/day1/cam/C.dng")

	dec := &fakeDecoder{images: map[string]*image.RGBA{
		"A.dng": solid(color.RGBA{120, 130, 140, 255}),
		"B.dng": darkImage(),
	}}
	enc := newRecordingEncoder()
	runner, logs := newRunner(t, dec, enc)

	stats, err := runner.Run(context.Background(), testConfig(root))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Found != 3 || stats.Processed != 2 || stats.Deleted != 2 || stats.Failed != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want found=3 processed=2 deleted=2 failed=1", stats)
	}
	if stats.OutputBytes <= 0 {
		t.Errorf("OutputBytes = %d, want > 0", stats.OutputBytes)
	}

	for _, p := range []string{a, b} {
		if exists(p) {
			t.Errorf("source %s still exists", filepath.Base(p))
		}
		if !exists(OutputPath(p, ".jpg")) {
			t.Errorf("output for %s missing", filepath.Base(p))
		}
	}
	if !exists(c) {
		t.Error("corrupt source C.dng was deleted")
	}
	if exists(OutputPath(c, ".jpg")) {
		t.Error("output written for corrupt C.dng")
	}

	if got := enc.encoded["A.jpg"].RGBAAt(5, 5); got != (color.RGBA{120, 130, 140, 255}) {
		t.Errorf("A adjusted pixel = %v, want unchanged", got)
	}
	if got := enc.encoded["B.jpg"].RGBAAt(9, 9); got != (color.RGBA{150, 150, 150, 255}) {
		t.Errorf("B adjusted pixel = %v, want x1.5", got)
	}

	out := logs.String()
	if n := strings.Count(out, "error processing"); n != 1 {
		t.Errorf("error lines = %d, want 1\n%s", n, out)
	}
	if !strings.Contains(out, "error processing "+c) {
		t.Errorf("error line does not name C.dng:\n%s", out)
	}
	if !strings.Contains(out, "B.dng status=Underexposed over=0.00% under=20.00% saved_as=B.jpg") {
		t.Errorf("per-file line for B missing:\n%s", out)
	}
	if !strings.Contains(out, "Processed files: 2") || !strings.Contains(out, "Deleted RAW files: 2") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestRun_NoFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/b/c/shallow.dng")

	dec := &fakeDecoder{}
	runner, logs := newRunner(t, dec, silentEncoder{})

	stats, err := runner.Run(context.Background(), testConfig(root))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
	if len(dec.calls) != 0 {
		t.Errorf("decoder called for %v", dec.calls)
	}
	if !strings.Contains(logs.String(), "no RAW files found") {
		t.Errorf("missing no-files report:\n%s", logs.String())
	}
	if strings.Contains(logs.String(), "Processed files") {
		t.Errorf("summary printed for empty run:\n%s", logs.String())
	}
}

func TestRun_DiscoveryFailure(t *testing.T) {
	runner, _ := newRunner(t, &fakeDecoder{}, silentEncoder{})
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))

	if _, err := runner.Run(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRun_Locked(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/b/c/d/A.dng")

	held := flock.New(filepath.Join(root, LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("failed to take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	dec := &fakeDecoder{}
	runner, _ := newRunner(t, dec, silentEncoder{})
	if _, err := runner.Run(context.Background(), testConfig(root)); !errors.Is(err, ErrLocked) {
		t.Errorf("err = %v, want ErrLocked", err)
	}
	if len(dec.calls) != 0 {
		t.Errorf("decoder called while locked: %v", dec.calls)
	}
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "a/b/c/d/A.dng")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dec := &fakeDecoder{images: map[string]*image.RGBA{"A.dng": solid(color.RGBA{90, 90, 90, 255})}}
	runner, _ := newRunner(t, dec, newRecordingEncoder())

	stats, err := runner.Run(ctx, testConfig(root))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if stats.Found != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if !exists(a) {
		t.Error("source deleted after cancellation")
	}
}

func TestProcessFile_OutputMissingKeepsSource(t *testing.T) {
	root := t.TempDir()
	src := touch(t, root, "a/b/c/d/A.dng")

	dec := &fakeDecoder{images: map[string]*image.RGBA{"A.dng": solid(color.RGBA{90, 90, 90, 255})}}
	runner, logs := newRunner(t, dec, silentEncoder{})

	res := runner.ProcessFile(context.Background(), src, ".jpg")
	if res.Outcome != OutputMissing {
		t.Errorf("Outcome = %v, want output-missing", res.Outcome)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}
	if !exists(src) {
		t.Error("source deleted although output is missing")
	}
	if !strings.Contains(logs.String(), "output not created, skipping deletion") {
		t.Errorf("missing warning:\n%s", logs.String())
	}

	var stats Stats
	stats.Add(res)
	if stats.Processed != 0 || stats.Deleted != 0 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want only skipped", stats)
	}
}

func TestProcessFile_EncodeFailure(t *testing.T) {
	root := t.TempDir()
	src := touch(t, root, "a/b/c/d/A.dng")

	dec := &fakeDecoder{images: map[string]*image.RGBA{"A.dng": solid(color.RGBA{90, 90, 90, 255})}}
	runner, _ := newRunner(t, dec, failingEncoder{})

	res := runner.ProcessFile(context.Background(), src, ".jpg")
	if res.Outcome != Failed {
		t.Fatalf("Outcome = %v, want failed", res.Outcome)
	}
	var fe *FileError
	if !errors.As(res.Err, &fe) || fe.Stage != StageEncode {
		t.Errorf("Err = %v, want encode-stage FileError", res.Err)
	}
	if !exists(src) {
		t.Error("source deleted after encode failure")
	}
}

func TestProcessFile_RealEncodeFailureLeavesNoOutput(t *testing.T) {
	root := t.TempDir()
	src := touch(t, root, "a/b/c/d/W.dng")

	// Too wide for JPEG, so the real encoder fails after classification.
	wide := image.NewRGBA(image.Rect(0, 0, 1<<16, 1))
	dec := &fakeDecoder{images: map[string]*image.RGBA{"W.dng": wide}}
	runner, _ := newRunner(t, dec, imaging.NewFileEncoder(75))

	res := runner.ProcessFile(context.Background(), src, ".jpg")
	var fe *FileError
	if !errors.As(res.Err, &fe) || fe.Stage != StageEncode {
		t.Fatalf("Err = %v, want encode-stage FileError", res.Err)
	}
	if !exists(src) {
		t.Error("source deleted after encode failure")
	}
	if exists(OutputPath(src, ".jpg")) {
		t.Error("partial output left after encode failure")
	}
	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(src), ".rawconv-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestProcessFile_DecodeFailure(t *testing.T) {
	root := t.TempDir()
	src := touch(t, root, "a/b/c/d/C.dng")

	runner, _ := newRunner(t, &fakeDecoder{}, newRecordingEncoder())

	res := runner.ProcessFile(context.Background(), src, ".jpg")
	var fe *FileError
	if !errors.As(res.Err, &fe) || fe.Stage != StageDecode {
		t.Fatalf("Err = %v, want decode-stage FileError", res.Err)
	}
	if !errors.Is(res.Err, errCorrupt) {
		t.Errorf("Err does not wrap decoder error: %v", res.Err)
	}
	if !exists(src) {
		t.Error("source deleted after decode failure")
	}
}

func TestProcessFile_EmptyImage(t *testing.T) {
	root := t.TempDir()
	src := touch(t, root, "a/b/c/d/E.dng")

	dec := &fakeDecoder{images: map[string]*image.RGBA{"E.dng": image.NewRGBA(image.Rect(0, 0, 0, 0))}}
	runner, _ := newRunner(t, dec, newRecordingEncoder())

	res := runner.ProcessFile(context.Background(), src, ".jpg")
	if !errors.Is(res.Err, exposure.ErrEmptyImage) {
		t.Errorf("Err = %v, want ErrEmptyImage", res.Err)
	}
	if exists(OutputPath(src, ".jpg")) {
		t.Error("output written for empty image")
	}
}

func TestOutcome_String(t *testing.T) {
	if Converted.String() != "converted" || OutputMissing.String() != "output-missing" || Failed.String() != "failed" {
		t.Error("unexpected outcome labels")
	}
}
