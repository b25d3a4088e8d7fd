package media

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// writeWAV writes a 16-bit PCM stereo file the wav decoder can read.
func writeWAV(t *testing.T, path string, sampleRate int, frames [][2]int16) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create wav file: %v", err)
	}
	defer f.Close() //nolint:errcheck // test fixture

	dataLen := uint32(len(frames) * 4)
	write := func(v interface{}) {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatalf("Failed to write wav field: %v", err)
		}
	}

	write([]byte("RIFF"))
	write(uint32(36 + dataLen))
	write([]byte("WAVE"))
	write([]byte("fmt "))
	write(uint32(16))
	write(uint16(1))
	write(uint16(2))
	write(uint32(sampleRate))
	write(uint32(sampleRate * 4))
	write(uint16(4))
	write(uint16(16))
	write([]byte("data"))
	write(dataLen)
	for _, fr := range frames {
		write(fr[0])
		write(fr[1])
	}
}

func drainStream(t *testing.T, s Stream) [][2]float64 {
	t.Helper()

	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			if err := s.Err(); err != nil {
				t.Fatalf("Expected clean end of stream, got %v", err)
			}
			return out
		}
	}
}

// Test format dispatch

func TestRegistry_Supports(t *testing.T) {
	r := NewRegistry(44100)

	supported := []string{"/music/a.flac", "/music/a.mp3", "/music/a.wav", "/music/a.ogg", "/music/a.oga", "/music/UPPER.FLAC"}
	for _, loc := range supported {
		if !r.Supports(loc) {
			t.Errorf("Expected %s to be supported", loc)
		}
	}

	unsupported := []string{"/music/a.txt", "/music/a.m4a", "/music/noext"}
	for _, loc := range unsupported {
		if r.Supports(loc) {
			t.Errorf("Expected %s to be unsupported", loc)
		}
	}
}

func TestRegistry_OpenUnsupported(t *testing.T) {
	r := NewRegistry(44100)

	_, err := r.Open("/music/readme.txt")
	if err == nil {
		t.Fatal("Expected error for unsupported extension")
	}

	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %T", err)
	}
	if decodeErr.Location != "/music/readme.txt" {
		t.Errorf("Expected location in error, got %s", decodeErr.Location)
	}
}

func TestRegistry_OpenMissingFile(t *testing.T) {
	r := NewRegistry(44100)

	_, err := r.Open(filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %T", err)
	}
}

// Test decoding

func TestRegistry_DecodeWAV(t *testing.T) {
	const frameCount = 200
	frames := make([][2]int16, frameCount)
	for i := range frames {
		frames[i] = [2]int16{int16(i), int16(-i)}
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, frames)

	r := NewRegistry(44100)
	s, err := r.Open(path)
	if err != nil {
		t.Fatalf("Failed to open wav: %v", err)
	}
	defer s.Close() //nolint:errcheck // test cleanup

	wantDur := time.Duration(frameCount) * time.Second / 44100
	if got := s.Duration(); got < wantDur-time.Millisecond || got > wantDur+time.Millisecond {
		t.Errorf("Expected duration %v, got %v", wantDur, got)
	}

	out := drainStream(t, s)
	if len(out) != frameCount {
		t.Fatalf("Expected %d frames, got %d", frameCount, len(out))
	}
	for _, i := range []int{0, 1, 57, frameCount - 1} {
		want := float64(i) / (1 << 15)
		if math.Abs(out[i][0]-want) > 1e-3 {
			t.Errorf("Expected frame %d left %.6f, got %.6f", i, want, out[i][0])
		}
		if math.Abs(out[i][1]+want) > 1e-3 {
			t.Errorf("Expected frame %d right %.6f, got %.6f", i, -want, out[i][1])
		}
	}
}

func TestRegistry_ResamplesToOutputRate(t *testing.T) {
	const nativeRate = 22050
	const frameCount = nativeRate / 10
	frames := make([][2]int16, frameCount)
	path := filepath.Join(t.TempDir(), "slow.wav")
	writeWAV(t, path, nativeRate, frames)

	r := NewRegistry(44100)
	s, err := r.Open(path)
	if err != nil {
		t.Fatalf("Failed to open wav: %v", err)
	}
	defer s.Close() //nolint:errcheck // test cleanup

	out := drainStream(t, s)
	want := frameCount * 2
	tolerance := 128
	if len(out) < want-tolerance || len(out) > want+tolerance {
		t.Errorf("Expected about %d resampled frames, got %d", want, len(out))
	}

	wantDur := time.Duration(frameCount) * time.Second / nativeRate
	if got := s.Duration(); got < wantDur-time.Millisecond || got > wantDur+time.Millisecond {
		t.Errorf("Expected duration %v, got %v", wantDur, got)
	}
}

func TestRegistry_SeekBeforeStreaming(t *testing.T) {
	const frameCount = 1000
	frames := make([][2]int16, frameCount)
	for i := range frames {
		frames[i] = [2]int16{int16(i), int16(i)}
	}
	path := filepath.Join(t.TempDir(), "seek.wav")
	writeWAV(t, path, 44100, frames)

	r := NewRegistry(44100)
	s, err := r.Open(path)
	if err != nil {
		t.Fatalf("Failed to open wav: %v", err)
	}
	defer s.Close() //nolint:errcheck // test cleanup

	target := 500 * time.Second / 44100
	if err := s.SeekTo(target); err != nil {
		t.Fatalf("Failed to seek: %v", err)
	}

	out := drainStream(t, s)
	if len(out) != frameCount-500 {
		t.Errorf("Expected %d frames after seek, got %d", frameCount-500, len(out))
	}
	want := float64(500) / (1 << 15)
	if math.Abs(out[0][0]-want) > 1e-3 {
		t.Errorf("Expected first frame after seek %.6f, got %.6f", want, out[0][0])
	}
}
