// Command shake-light polls a tilt switch and blinks a lamp when the
// device is shaken, publishing events to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/shake-light/internal/gpio"
	"github.com/sweeney/shake-light/internal/light"
	"github.com/sweeney/shake-light/internal/logic"
	"github.com/sweeney/shake-light/internal/mqtt"
	"github.com/sweeney/shake-light/internal/status"
	"github.com/sweeney/shake-light/internal/web"
)

func main() {
	window := flag.Duration("window", logic.DefaultWindow, "Polling window for shake detection")
	shortPulse := flag.Duration("short-pulse", logic.DefaultShortPulse, "Short pulse length in the blink pattern")
	longPulse := flag.Duration("long-pulse", logic.DefaultLongPulse, "Long pulse length in the blink pattern")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pinLamp := flag.Int("pin-lamp", gpio.DefaultPinLamp, "BCM pin number for the lamp")
	pinSwitch := flag.Int("pin-switch", gpio.DefaultPinSwitch, "BCM pin number for the tilt switch")
	printState := flag.Bool("print-state", false, "Print current switch state and exit")
	testPattern := flag.Bool("test-pattern", false, "Play the blink pattern once and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*window, *shortPulse, *longPulse, *broker, *heartbeat, *pinLamp, *pinSwitch, *printState, *testPattern, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(window, shortPulse, longPulse time.Duration, broker string, heartbeat time.Duration, pinLamp, pinSwitch int, printState, testPattern bool, httpAddr, wsBroker string) error {
	// Initialize GPIO
	dev, err := gpio.NewRealDevice(pinLamp, pinSwitch)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer dev.Close()

	controller := light.New(dev, window, logic.ShakePattern(shortPulse, longPulse))

	// Print state mode
	if printState {
		s, err := controller.CheckState()
		if err != nil {
			return fmt.Errorf("read switch: %w", err)
		}
		fmt.Printf("switch: %s\n", s)
		return nil
	}

	// Pattern bring-up mode
	if testPattern {
		return controller.PlayPattern(context.Background())
	}

	// Cancels blocking sleeps so a signal interrupts a poll window or a
	// pattern mid-flight. The signal name for the shutdown event comes
	// from sigCh below; both registrations receive the same signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		WindowMs:     window.Milliseconds(),
		ShortPulseMs: shortPulse.Milliseconds(),
		LongPulseMs:  longPulse.Milliseconds(),
		HeartbeatMs:  heartbeat.Milliseconds(),
		PinLamp:      pinLamp,
		PinSwitch:    pinSwitch,
		Broker:       broker,
		HTTPAddr:     httpAddr,
		WSBroker:     wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: window=%v pulses=%v/%v pins=%d/%d broker=%s heartbeat=%v",
		window, shortPulse, longPulse, pinLamp, pinSwitch, broker, heartbeat)

	return runLoop(ctx, controller, publisher, publisher, tracker, heartbeat, time.Now, sigCh)
}

func runLoop(ctx context.Context, controller *light.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, sig <-chan os.Signal) error {
	startTime := now()
	detector := logic.NewDetector(startTime)

	for {
		select {
		case s := <-sig:
			return shutdown(s, publisher, mqttStatus, tracker, now)
		default:
		}

		before, after, err := controller.Poll(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// Interrupted mid-poll; if a signal caused it the name is
				// on sig, otherwise the context owner wants us gone.
				select {
				case s := <-sig:
					return shutdown(s, publisher, mqttStatus, tracker, now)
				case <-time.After(100 * time.Millisecond):
					return ctx.Err()
				}
			}
			log.Printf("gpio poll error: %v", err)
			continue
		}

		t := now()
		if event := detector.Process(before, after, t); event != nil {
			log.Printf("event: %s (switch %s -> %s)", event.Type, event.Before, event.After)
			if err := publisher.Publish(*event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}

		// Check for heartbeat
		if hbData := detector.CheckHeartbeat(t, heartbeat); hbData != nil {
			log.Printf("heartbeat: uptime=%v shakes=%d rising=%d falling=%d",
				hbData.Uptime, hbData.Counts.Shakes, hbData.Counts.Rising, hbData.Counts.Falling)

			hbEvent := mqtt.SystemEvent{
				Timestamp: hbData.Timestamp,
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				tracker.Update(controller.State(), detector.Counts(), detector.LastShake())
				snap := tracker.Snapshot()
				hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}

		// Update status tracker for HTTP consumers
		if tracker != nil {
			tracker.Update(controller.State(), detector.Counts(), detector.LastShake())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

func shutdown(s os.Signal, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time) error {
	log.Printf("received %v, shutting down", s)
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
