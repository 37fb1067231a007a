package voice

func defaultFFmpegInput() string { return "avfoundation" }
