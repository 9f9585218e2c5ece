// Package main runs a demo planning client against a local API server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type planEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Data    struct {
		Score     float64  `json:"score"`
		Reasons   []string `json:"reasons"`
		Itinerary struct {
			City string `json:"city"`
			Days []struct {
				Day   int `json:"day"`
				Spots []struct {
					Name     string `json:"name"`
					Category string `json:"category"`
				} `json:"spots"`
				TotalDistanceKm float64 `json:"total_distance_km"`
			} `json:"days"`
		} `json:"itinerary"`
		WeatherAdvice []string `json:"weather_advice"`
	} `json:"data"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	city := "tokyo"
	if len(os.Args) > 1 {
		city = os.Args[1]
	}

	body, _ := json.Marshal(map[string]any{
		"city":       city,
		"days":       3,
		"preference": "transit",
		"start_date": time.Now().Format("2006-01-02"),
	})
	resp, err := http.Post(fmt.Sprintf("http://localhost:%s/v1/plan", port), "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("plan request: %v", err)
	}
	defer resp.Body.Close()

	var env planEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Fatalf("decode response: %v", err)
	}
	if env.Status != "success" {
		log.Fatalf("plan failed (%d %s): %s", resp.StatusCode, env.Code, env.Reason)
	}

	fmt.Printf("city: %s  score: %.2f\n", env.Data.Itinerary.City, env.Data.Score)
	for _, day := range env.Data.Itinerary.Days {
		fmt.Printf("day %d (%.2f km):\n", day.Day, day.TotalDistanceKm)
		for _, s := range day.Spots {
			fmt.Printf("  - %s (%s)\n", s.Name, s.Category)
		}
	}
	if len(env.Data.Reasons) > 0 {
		fmt.Println("constraint notes:")
		for _, r := range env.Data.Reasons {
			fmt.Printf("  ! %s\n", r)
		}
	}
	for _, a := range env.Data.WeatherAdvice {
		fmt.Printf("advice: %s\n", a)
	}
}
