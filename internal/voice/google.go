package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/config"
)

const captureSampleRate = 16000

// googleRecognizer captures a short WAV clip with a local recorder and
// transcribes it with the Google Cloud Speech API.
type googleRecognizer struct {
	client        *speech.Client
	recorder      string
	language      string
	listenSeconds int
	log           *slog.Logger
}

// newGoogleRecognizer resolves the capture capability. It fails (and
// capture stays unavailable) when credentials are not configured or no
// recorder binary exists on PATH.
func newGoogleRecognizer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*googleRecognizer, error) {
	creds := cfg.SpeechCredentials
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if creds == "" {
		return nil, fmt.Errorf("no speech credentials configured")
	}

	recorder, err := findRecorder()
	if err != nil {
		return nil, err
	}

	client, err := speech.NewClient(ctx, option.WithCredentialsFile(creds))
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	return &googleRecognizer{
		client:        client,
		recorder:      recorder,
		language:      cfg.SpeechLanguage,
		listenSeconds: cfg.ListenSeconds,
		log:           logger,
	}, nil
}

// Listen records one clip and returns the first alternative of the
// first final result. No recognized speech yields ("", nil).
func (r *googleRecognizer) Listen(ctx context.Context) (string, error) {
	clip := filepath.Join(os.TempDir(), fmt.Sprintf("clinic-chat-%d.wav", time.Now().UnixNano()))
	defer os.Remove(clip)

	if err := r.record(ctx, clip); err != nil {
		return "", fmt.Errorf("record audio: %w", err)
	}

	audio, err := os.ReadFile(clip)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}

	resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: captureSampleRate,
			LanguageCode:    r.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		return strings.TrimSpace(alts[0].GetTranscript()), nil
	}
	return "", nil
}

// Close releases the API client.
func (r *googleRecognizer) Close() error {
	return r.client.Close()
}

// record captures listenSeconds of mono 16kHz PCM into path.
func (r *googleRecognizer) record(ctx context.Context, path string) error {
	secs := strconv.Itoa(r.listenSeconds)

	var cmd *exec.Cmd
	switch filepath.Base(r.recorder) {
	case "arecord":
		cmd = exec.CommandContext(ctx, r.recorder,
			"-q",
			"-f", "S16_LE",
			"-r", strconv.Itoa(captureSampleRate),
			"-c", "1",
			"-d", secs,
			"-t", "wav",
			path,
		)
	default: // ffmpeg
		cmd = exec.CommandContext(ctx, r.recorder,
			"-y",
			"-loglevel", "error",
			"-f", defaultFFmpegInput(),
			"-i", "default",
			"-t", secs,
			"-acodec", "pcm_s16le",
			"-ac", "1",
			"-ar", strconv.Itoa(captureSampleRate),
			path,
		)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func findRecorder() (string, error) {
	for _, bin := range []string{"arecord", "ffmpeg"} {
		if path, err := exec.LookPath(bin); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no audio recorder found (need arecord or ffmpeg)")
}
