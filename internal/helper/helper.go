package helper

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var durationPattern = regexp.MustCompile(`(\d+)([smhdM])`)

func GenerateRandomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ParseDuration sums every <n><unit> pair of input (s, m, h, d, M for 30
// days). Input with no such pair falls back to defaultValue.
func ParseDuration(input string, defaultValue string) time.Duration {
	matches := durationPattern.FindAllStringSubmatch(input, -1)

	if len(matches) == 0 {
		if input != "" {
			log.Warn().Str("input", input).Msg("invalid duration string")
		}
		return ParseDuration(defaultValue, "1s")
	}

	var total time.Duration
	for _, match := range matches {
		value, _ := strconv.Atoi(match[1])
		unit := match[2]

		switch unit {
		case "s":
			total += time.Duration(value) * time.Second
		case "m":
			total += time.Duration(value) * time.Minute
		case "h":
			total += time.Duration(value) * time.Hour
		case "d":
			total += time.Duration(value) * 24 * time.Hour
		case "M":
			total += time.Duration(value) * 24 * time.Hour * 30
		}
	}

	return total
}

// ParseSeconds parses operator input for a timeout or interval: a whole
// number of seconds, or a Go duration such as 1500ms. The result must be
// positive.
func ParseSeconds(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("value is required")
	}

	var d time.Duration
	if n, err := strconv.Atoi(input); err == nil {
		d = time.Duration(n) * time.Second
	} else if parsed, err := time.ParseDuration(input); err == nil {
		d = parsed
	} else {
		return 0, fmt.Errorf("%q is not a number of seconds", input)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%q must be greater than zero", input)
	}

	return d, nil
}
