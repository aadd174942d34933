// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// rawStation повторяет форму записи фида, чтобы скрипт не тянул internal пакеты
type rawStation struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand,omitempty"`
	Address       string `json:"address,omitempty"`
	Neighborhood  string `json:"neighborhood,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
	PriceGasoline string `json:"price_gasoline,omitempty"`
	PriceEthanol  string `json:"price_ethanol,omitempty"`
	PriceDiesel   string `json:"price_diesel,omitempty"`
	CollectedAt   string `json:"collected_at,omitempty"`
	Source        string `json:"source,omitempty"`
}

func sampleStations() []rawStation {
	collected := time.Now().UTC().Format(time.RFC3339)
	return []rawStation{
		{
			ID:            "anp_101",
			Name:          "Posto Paulista",
			Brand:         "Petrobras",
			Address:       "Av. Paulista, 1000",
			Neighborhood:  "Bela Vista",
			City:          "São Paulo",
			State:         "SP",
			Latitude:      "-23,5613",
			Longitude:     "-46,6558",
			PriceGasoline: "5,79",
			PriceEthanol:  "3,99",
			CollectedAt:   collected,
			Source:        "anp",
		},
		{
			ID:          "anp_102",
			Name:        "Auto Posto Campinas",
			Brand:       "Shell",
			Address:     "Av. Norte-Sul, 500",
			City:        "Campinas",
			State:       "SP",
			Latitude:    "-22.9056",
			Longitude:   "-47.0608",
			PriceDiesel: "6,15",
			CollectedAt: collected,
			Source:      "anp",
		},
		{
			ID:            "anp_103",
			Name:          "Posto Copacabana",
			City:          "Rio de Janeiro",
			State:         "RJ",
			Latitude:      "-22.9714",
			Longitude:     "-43.1823",
			PriceGasoline: "5,95",
			CollectedAt:   collected,
			Source:        "anp",
		},
	}
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers, comma separated")
	topic := flag.String("topic", "fuelstation.raw", "Kafka topic for raw station records")
	redisAddr := flag.String("redis", "localhost:6379", "Redis address to watch for the snapshot built event")
	wait := flag.Duration("wait", 60*time.Second, "How long to wait for the snapshot built event")
	flag.Parse()

	ctx := context.Background()

	// Публикация тестовой пачки в Kafka
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(strings.Split(*brokers, ",")...),
		Topic:    *topic,
		Balancer: &kafkago.LeastBytes{},
	}
	defer writer.Close()

	stations := sampleStations()
	messages := make([]kafkago.Message, 0, len(stations))
	for _, st := range stations {
		data, err := json.Marshal(st)
		if err != nil {
			log.Fatalf("Failed to marshal station: %v", err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(st.ID),
			Value: data,
		})
	}

	if err := writer.WriteMessages(ctx, messages...); err != nil {
		log.Fatalf("Failed to publish records: %v", err)
	}

	fmt.Printf("✅ Records published successfully!\n")
	fmt.Printf("   Topic: %s\n", *topic)
	fmt.Printf("   Records: %d\n", len(stations))
	for _, st := range stations {
		fmt.Printf("   - %s (%s, %s)\n", st.Name, st.City, st.State)
	}

	// Ожидание события о сборке снапшота
	fmt.Printf("\n⏳ Waiting for snapshot built event in stream:snapshot:built...\n")

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	timeout := time.After(*wait)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	lastID := "$"
	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for snapshot built event")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:snapshot:built", lastID},
				Count:   10,
				Block:   time.Second,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var event struct {
						Generation string    `json:"generation"`
						BuiltAt    time.Time `json:"built_at"`
						TotalCount int       `json:"total_count"`
						FeedSource string    `json:"feed_source"`
					}
					if err := json.Unmarshal([]byte(dataStr), &event); err != nil {
						continue
					}

					fmt.Printf("✅ Snapshot built!\n")
					fmt.Printf("   Generation: %s\n", event.Generation)
					fmt.Printf("   Stations: %d\n", event.TotalCount)
					fmt.Printf("   Source: %s\n", event.FeedSource)
					return
				}
			}
		}
	}
}
