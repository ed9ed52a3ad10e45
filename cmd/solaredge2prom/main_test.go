package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/berfenger/solaredge2prom/internal/config"
	"github.com/berfenger/solaredge2prom/internal/util"
	"github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := util.LoadTestConfig()
	cfg.MetricsPort = uint(port)
	return cfg
}

func metricsURL(cfg config.Config) string {
	return fmt.Sprintf("http://127.0.0.1:%d/metrics", cfg.MetricsPort)
}

func scrape(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}

func TestRunFailsBeforeListeningWhenUnreachable(t *testing.T) {

	cfg := testConfig(t)
	reader := &sunspec_modbus.TestInverterModbusReader{
		OpenErr: &sunspec_modbus.ConnectionError{Op: "open", Err: errors.New("connection refused")},
	}

	err := run(context.Background(), cfg, reader, prometheus.NewRegistry(), zap.NewNop())

	var connErr *sunspec_modbus.ConnectionError
	require.ErrorAs(t, err, &connErr)

	_, err = scrape(metricsURL(cfg))
	assert.Error(t, err, "metrics endpoint must not be reachable")
}

func TestRunFailsBeforeListeningOnFirstRead(t *testing.T) {

	cfg := testConfig(t)
	reader := &sunspec_modbus.TestInverterModbusReader{
		ReadErr: &sunspec_modbus.ConnectionError{Op: "read common block", Err: errors.New("i/o timeout")},
	}

	err := run(context.Background(), cfg, reader, prometheus.NewRegistry(), zap.NewNop())

	var connErr *sunspec_modbus.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, reader.Closed)

	_, err = scrape(metricsURL(cfg))
	assert.Error(t, err)
}

func TestRunServesMetricsUntilCancelled(t *testing.T) {

	cfg := testConfig(t)
	reader := &sunspec_modbus.TestInverterModbusReader{
		Readings: []sunspec_modbus.RawReading{sunspec_modbus.TestThreePhaseReading()},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, reader, prometheus.NewRegistry(), zap.NewNop()) }()

	var body string
	require.Eventually(t, func() bool {
		var err error
		body, err = scrape(metricsURL(cfg))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	assert.Contains(t, body, "solaredge_temperature 25")
	assert.Contains(t, body, "solaredge_current 1")
	assert.Contains(t, body, `status="Inverter is ON and producing power"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.True(t, reader.Closed)
}

func TestRunStopsOnSteadyStateError(t *testing.T) {

	cfg := testConfig(t)
	reader := &sunspec_modbus.TestInverterModbusReader{
		Readings:  []sunspec_modbus.RawReading{sunspec_modbus.TestThreePhaseReading()},
		ReadErr:   &sunspec_modbus.ConnectionError{Op: "read inverter block", Err: errors.New("connection reset")},
		FailAfter: 1,
	}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, reader, prometheus.NewRegistry(), zap.NewNop()) }()

	select {
	case err := <-done:
		var connErr *sunspec_modbus.ConnectionError
		assert.ErrorAs(t, err, &connErr)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not fail")
	}

	_, err := scrape(metricsURL(cfg))
	assert.Error(t, err, "server is shut down with the loop")
}

func TestRunFailsWhenPortIsTaken(t *testing.T) {

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	cfg := util.LoadTestConfig()
	cfg.PollingInterval = 60
	cfg.MetricsPort = uint(l.Addr().(*net.TCPAddr).Port)
	reader := &sunspec_modbus.TestInverterModbusReader{
		Readings: []sunspec_modbus.RawReading{sunspec_modbus.TestThreePhaseReading()},
	}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, reader, prometheus.NewRegistry(), zap.NewNop()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "http server")
	case <-time.After(10 * time.Second):
		t.Fatal("run did not fail")
	}
}
