package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

// valueLogLayout is the timestamp layout of "<timestamp>,<value>" log lines.
const valueLogLayout = "2006-01-02 15:04:05"

// Parser reads flight record files and value logs.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]*model.FlightRecord
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Record *model.FlightRecord
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]*model.FlightRecord),
	}
}

// ParseFlightLog parses the flight record JSON at the specified path.
func (p *Parser) ParseFlightLog(path string) (*model.FlightRecord, error) {
	p.mu.Lock()
	if cached, ok := p.cache[path]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing flight log: %s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to read flight log: %s - %v", path, err))
		return nil, err
	}

	record, err := ParseFlightRecord(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	p.mu.Lock()
	p.cache[path] = record
	p.mu.Unlock()

	return record, nil
}

// ParseFlightRecord decodes a flight record from JSON bytes. Both the
// metadata and samples keys must be present.
func ParseFlightRecord(data []byte) (*model.FlightRecord, error) {
	var keys map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, ok := keys["metadata"]; !ok {
		return nil, fmt.Errorf("missing metadata key")
	}
	if _, ok := keys["samples"]; !ok {
		return nil, fmt.Errorf("missing samples key")
	}

	var record model.FlightRecord
	if err := sonic.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid flight record: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

// ParseFiles parses multiple flight logs concurrently and returns a
// channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			record, err := p.ParseFlightLog(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s - %v", f, err))
			}

			results <- ParseResult{
				File:   f,
				Record: record,
				Error:  err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)

		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}

// ParseValueLog reads a "<timestamp>,<value>" log file. Malformed lines
// are skipped.
func ParseValueLog(path string) ([]model.ValueSample, error) {
	file, err := os.Open(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open value log: %s - %v", path, err))
		return nil, err
	}
	defer file.Close()

	var samples []model.ValueSample
	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sample, err := parseValueLine(line)
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid line %s:%d - %v", path, lineCount, err))
			continue
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func parseValueLine(line string) (model.ValueSample, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return model.ValueSample{}, fmt.Errorf("expected '<timestamp>,<value>'")
	}
	ts, err := time.Parse(valueLogLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return model.ValueSample{}, fmt.Errorf("bad timestamp: %w", err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.ValueSample{}, fmt.Errorf("bad value: %w", err)
	}
	return model.ValueSample{Timestamp: ts, Value: value}, nil
}

// LastValue returns the value of the final sample, or zero when the log
// is empty.
func LastValue(samples []model.ValueSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Value
}
