package media

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/domain"
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

// Registry decodes local files by extension and resamples everything to
// a single output rate.
type Registry struct {
	outputRate beep.SampleRate
	decoders   map[string]decodeFunc
}

func NewRegistry(outputRate int) *Registry {
	return &Registry{
		outputRate: beep.SampleRate(outputRate),
		decoders: map[string]decodeFunc{
			".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
				return mp3.Decode(f)
			},
			".flac": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
				return flac.Decode(f)
			},
			".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
				return wav.Decode(f)
			},
			".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
				return vorbis.Decode(f)
			},
			".oga": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
				return vorbis.Decode(f)
			},
		},
	}
}

func (r *Registry) Supports(location string) bool {
	_, ok := r.decoders[normalizeExt(location)]
	return ok
}

func (r *Registry) Open(location string) (Stream, error) {
	decode, ok := r.decoders[normalizeExt(location)]
	if !ok {
		return nil, &domain.DecodeError{Location: location, Err: unsupportedErr(location)}
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, &domain.DecodeError{Location: location, Err: fmt.Errorf("failed to open file: %w", err)}
	}

	seeker, format, err := decode(f)
	if err != nil {
		f.Close() //nolint:errcheck // already failing
		return nil, &domain.DecodeError{Location: location, Err: fmt.Errorf("failed to decode: %w", err)}
	}

	s := &fileStream{
		file:     f,
		seeker:   seeker,
		format:   format,
		streamer: seeker,
		rate:     r.outputRate,
	}
	if format.SampleRate != r.outputRate {
		s.streamer = beep.Resample(constants.ResampleQuality, format.SampleRate, r.outputRate, seeker)
	}
	return s, nil
}

// fileStream wraps a beep decoder, resampled to the registry rate. Seek
// positions are translated through the native sample rate, so SeekTo is
// only safe before the resampler has buffered anything.
type fileStream struct {
	file     *os.File
	seeker   beep.StreamSeekCloser
	format   beep.Format
	streamer beep.Streamer
	rate     beep.SampleRate
}

func (s *fileStream) Stream(samples [][2]float64) (int, bool) {
	return s.streamer.Stream(samples)
}

func (s *fileStream) Err() error {
	return s.streamer.Err()
}

func (s *fileStream) SeekTo(d time.Duration) error {
	if err := s.seeker.Seek(s.format.SampleRate.N(d)); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

func (s *fileStream) Duration() time.Duration {
	return s.format.SampleRate.D(s.seeker.Len())
}

func (s *fileStream) Close() error {
	err := s.seeker.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
