package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"qsparse/sim"
)

const (
	defaultQubits   = 3
	defaultShots    = 1024
	defaultSavePath = "circuit.json"
)

// envInt reads a positive integer environment variable, falling back on
// absence, parse failure or a value below 1.
func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envBool(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}

func main() {
	// Optional .env in the working directory; the environment wins over it.
	_ = godotenv.Load()

	numQubits := envInt("QSPARSE_QUBITS", defaultQubits)
	shots := envInt("QSPARSE_SHOTS", defaultShots)
	debug := envBool("QSPARSE_DEBUG")

	logger := zerolog.Nop()
	if debug {
		logFile, err := os.OpenFile("qsparse.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open debug log: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logger = zerolog.New(logFile).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	savePath := defaultSavePath
	m := initialModel(numQubits, shots, debug, logger, savePath)

	if len(os.Args) > 1 {
		path := os.Args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			os.Exit(1)
		}
		c, err := sim.ParseCircuit(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
			os.Exit(1)
		}
		m.loadCircuit(c)
		m.savePath = path
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
