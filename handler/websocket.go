package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"cinema_booking/config"
	"cinema_booking/database"
	"cinema_booking/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
)

func gateRedis() *redis.Client {
	redisOnce.Do(func() {
		addr := config.Config("REDIS_ADDR")
		if addr == "" {
			return
		}
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	})
	return redisClient
}

func gateChannel(sessionId uint) string {
	return fmt.Sprintf("gate:redemptions:%d", sessionId)
}

type redemptionEvent struct {
	BookingDetailId uint `json:"bookingDetailId"`
	BookingId       uint `json:"bookingId"`
	SeatNumber      int  `json:"seatNumber"`
	SessionId       uint `json:"sessionId"`
}

// BroadcastRedemption pushes a just-validated seat onto the gate dashboard
// feed for its session. Best effort, never fails the redemption.
func BroadcastRedemption(detail model.BookingDetail) {
	client := gateRedis()
	if client == nil {
		return
	}

	var booking model.Booking
	if err := database.DB.First(&booking, detail.BookingId).Error; err != nil {
		return
	}

	event := redemptionEvent{
		BookingDetailId: detail.ID,
		BookingId:       booking.ID,
		SeatNumber:      detail.SeatNumber,
		SessionId:       booking.SessionId,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := client.Publish(context.Background(), gateChannel(booking.SessionId), payload).Err(); err != nil {
		log.Printf("failed to publish redemption event: %v", err)
	}
}

// GateFeed streams redemption events for one session to a connected gate
// dashboard over websocket.
func GateFeed(c *websocket.Conn) {
	defer c.Close()

	sessionIdStr := c.Params("sessionId")
	id64, err := strconv.ParseUint(sessionIdStr, 10, 64)
	if err != nil {
		return
	}
	sessionId := uint(id64)

	client := gateRedis()
	if client == nil {
		c.WriteJSON(map[string]string{"error": "live feed disabled"})
		return
	}

	ctx := context.Background()
	pubsub := client.Subscribe(ctx, gateChannel(sessionId))
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event redemptionEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			continue
		}
		if err := c.WriteJSON(event); err != nil {
			return
		}
	}
}
