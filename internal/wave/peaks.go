package wave

import (
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
)

const peakSampleRate = 8000

// FFmpegAvailable reports whether ffmpeg is on PATH. Without it the lane
// renders regions over a flat line instead of failing.
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Peaks decodes an audio file to mono 16-bit PCM via ffmpeg and folds it
// into buckets of peak amplitude in [0, 1]. Returns the bucket slice and
// the decoded duration in seconds.
func Peaks(ctx context.Context, path string, buckets int) ([]float64, float64, error) {
	if buckets <= 0 {
		return nil, 0, fmt.Errorf("buckets must be positive, got %d", buckets)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "quiet",
		"-i", path,
		"-ac", "1", "-ar", fmt.Sprint(peakSampleRate),
		"-f", "s16le", "-",
	)
	raw, err := cmd.Output()
	if err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	samples := len(raw) / 2
	if samples == 0 {
		return nil, 0, fmt.Errorf("ffmpeg produced no samples for %s", path)
	}
	duration := float64(samples) / peakSampleRate

	peaks := make([]float64, buckets)
	perBucket := samples / buckets
	if perBucket == 0 {
		perBucket = 1
	}
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		amp := float64(v) / 32768
		if amp < 0 {
			amp = -amp
		}
		b := i / perBucket
		if b >= buckets {
			b = buckets - 1
		}
		if amp > peaks[b] {
			peaks[b] = amp
		}
	}
	return peaks, duration, nil
}
