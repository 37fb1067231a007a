//go:build !darwin

package voice

func defaultFFmpegInput() string { return "alsa" }
