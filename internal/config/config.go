package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Addr             string
	RPCEndpoint      string
	LogLevel         string
	LogFormat        string
	FeeBasisPoints   uint64
	FeeDenominator   uint64
	FarmsFile        string
	BatchConcurrency int
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	feeBasisPoints, err := uintFromEnv("FEE_BASIS_POINTS", 300, 64)
	if err != nil {
		return nil, err
	}
	feeDenominator, err := uintFromEnv("FEE_DENOMINATOR", 100_000, 64)
	if err != nil {
		return nil, err
	}
	if feeDenominator == 0 || feeBasisPoints >= feeDenominator {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidFee, feeBasisPoints, feeDenominator)
	}

	// must fit a non-negative int
	concurrency, err := uintFromEnv("BATCH_CONCURRENCY", 8, strconv.IntSize-1)
	if err != nil {
		return nil, err
	}
	if concurrency == 0 {
		concurrency = 1
	}

	cfg := &Config{
		Addr:             addr,
		RPCEndpoint:      rpcURL,
		LogLevel:         logLevel,
		LogFormat:        os.Getenv("LOG_FORMAT"),
		FeeBasisPoints:   feeBasisPoints,
		FeeDenominator:   feeDenominator,
		FarmsFile:        os.Getenv("FARMS_FILE"),
		BatchConcurrency: int(concurrency),
	}

	return cfg, nil
}

func uintFromEnv(key string, def uint64, bitSize int) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, raw)
	}
	return v, nil
}
