package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"planward/services"
	"planward/utils"
)

var startTime = time.Now()

// HealthHandler reports dependency liveness and coarse system stats.
func HealthHandler(c *gin.Context) {
	health := gin.H{
		"status": "ok",
		"uptime": time.Since(startTime).Round(time.Second).String(),
	}

	mongoStatus := "ok"
	if err := pingMongo(utils.MongoClient); err != nil {
		mongoStatus = "unavailable"
		health["status"] = "degraded"
	}
	health["mongo"] = mongoStatus

	redisStatus := "ok"
	if services.GlobalSessionCache == nil || !services.GlobalSessionCache.IsConnected() {
		redisStatus = "unavailable"
		health["status"] = "degraded"
	}
	health["redis"] = redisStatus

	memPercent, memTotal := utils.GetMemoryUsage()
	health["system"] = gin.H{
		"cpu_percent":    utils.GetCPUUsage(),
		"memory_percent": memPercent,
		"memory_total":   memTotal,
	}

	utils.Success(c, health)
}

func pingMongo(client *mongo.Client) error {
	if client == nil {
		return context.Canceled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}
