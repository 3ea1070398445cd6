package mqttclient

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gorm.io/gorm"

	"palboti_backend/internal/config"
	"palboti_backend/internal/logger"
	"palboti_backend/internal/services"
	"palboti_backend/internal/services/dto"
)

// Client subscribes to the robot telemetry topic and feeds status
// reports into the robot service.
type Client struct {
	cfg    config.MQTTConfig
	client mqtt.Client
	robots services.RobotService
	db     *gorm.DB
}

func New(cfg config.MQTTConfig, robots services.RobotService, db *gorm.DB) *Client {
	c := &Client{cfg: cfg, robots: robots, db: db}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WithError(err).Warn("mqtt connection lost")
		})

	c.client = mqtt.NewClient(opts)
	return c
}

// Start connects to the broker. Connection failures are retried in the
// background, so Start only fails on configuration errors.
func (c *Client) Start() error {
	token := c.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (c *Client) Stop() {
	c.client.Disconnect(250)
}

func (c *Client) onConnect(client mqtt.Client) {
	logger.Info("mqtt connected", "broker", c.cfg.BrokerURL, "topic", c.cfg.Topic)
	if token := client.Subscribe(c.cfg.Topic, 1, c.handleMessage); token.Wait() && token.Error() != nil {
		logger.WithError(token.Error()).Error("mqtt subscribe failed", "topic", c.cfg.Topic)
	}
}

func (c *Client) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var report dto.RobotTelemetry
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		logger.WithError(err).Warn("dropping malformed telemetry payload", "topic", msg.Topic())
		return
	}
	if report.RobotID == "" {
		logger.Warn("dropping telemetry without robot_id", "topic", msg.Topic())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.robots.ApplyTelemetry(ctx, c.db.WithContext(ctx), report); err != nil {
		logger.WithError(err).Error("failed to apply robot telemetry", "robot", report.RobotID)
	}
}
