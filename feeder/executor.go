package feeder

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// HTTPError is a non-200 reply of a data source.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return "source replied " + e.Status
}

// Temporary reports whether the source may answer a repeated request.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Executor fetches the source of a job and extracts its value.
type Executor struct {
	client *http.Client
	now    func() time.Time
}

func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Execute runs job once.
func (e *Executor) Execute(ctx context.Context, job Job) (Observation, error) {
	body, err := e.fetch(ctx, job.URL)
	if err != nil {
		return Observation{}, errors.Wrapf(err, "job %s", job.Name)
	}
	if !gjson.ValidBytes(body) {
		return Observation{}, errors.Errorf("job %s: response is not valid JSON", job.Name)
	}

	result := gjson.GetBytes(body, job.Path)
	if !result.Exists() {
		return Observation{}, errors.Errorf("job %s: path %q not found", job.Name, job.Path)
	}

	value, err := ScaleValue(result, job.Decimals)
	if err != nil {
		return Observation{}, errors.Wrapf(err, "job %s", job.Name)
	}
	return Observation{Job: job, Value: value, ObservedAt: e.now()}, nil
}

func (e *Executor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", "aggregatord-feeder/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}

// ScaleValue turns a JSON number or numeric string into an integer scaled by
// 10^decimals. Extra fractional digits are truncated.
func ScaleValue(result gjson.Result, decimals uint32) (math.Int, error) {
	var raw string
	switch result.Type {
	case gjson.Number:
		raw = result.Raw
	case gjson.String:
		raw = strings.TrimSpace(result.Str)
	default:
		return math.Int{}, errors.Errorf("value %s is not a number", result.Raw)
	}

	if strings.ContainsAny(raw, "eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return math.Int{}, errors.Wrapf(err, "invalid number %q", raw)
		}
		raw = strconv.FormatFloat(f, 'f', -1, 64)
	}
	raw = strings.TrimPrefix(raw, "+")
	if strings.HasPrefix(raw, "-") {
		return math.Int{}, errors.Errorf("negative value %s", raw)
	}

	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" && frac == "" {
		return math.Int{}, errors.New("empty value")
	}
	if whole == "" {
		whole = "0"
	}
	if uint32(len(frac)) > decimals {
		frac = frac[:decimals]
	} else {
		frac += strings.Repeat("0", int(decimals)-len(frac))
	}

	digits := whole + frac
	for _, c := range digits {
		if c < '0' || c > '9' {
			return math.Int{}, errors.Errorf("invalid number %q", raw)
		}
	}
	// leading zeros would select octal parsing
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return math.ZeroInt(), nil
	}
	value, ok := math.NewIntFromString(digits)
	if !ok {
		return math.Int{}, errors.Errorf("invalid number %q", raw)
	}
	return value, nil
}
