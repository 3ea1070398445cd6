package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
)

func setupRobots(t *testing.T) (*gorm.DB, RobotService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Robot{}))

	return db, NewRobotService(repositories.NewRobotRepository())
}

func TestRobotCRUD(t *testing.T) {
	db, svc := setupRobots(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, db, dto.CreateRobotRequest{
		Name: "palbot-1", Location: "A1", Status: "online", Charge: "90%",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetByID(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "palbot-1", got.Name)

	status := "maintenance"
	updated, err := svc.Update(ctx, db, created.ID, dto.UpdateRobotRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", updated.Status)

	require.NoError(t, svc.Delete(ctx, db, created.ID))

	_, err = svc.GetByID(ctx, db, created.ID)
	require.Error(t, err)
}

func TestRobotDeleteUnknown(t *testing.T) {
	db, svc := setupRobots(t)

	err := svc.Delete(context.Background(), db, "missing")
	require.Error(t, err)
}

func TestTelemetryCreatesUnknownRobot(t *testing.T) {
	db, svc := setupRobots(t)
	ctx := context.Background()

	err := svc.ApplyTelemetry(ctx, db, dto.RobotTelemetry{
		RobotID: "palbot-7", Status: "online", Charge: "55%", Location: "A3",
	})
	require.NoError(t, err)

	robots, err := svc.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, robots, 1)
	assert.Equal(t, "palbot-7", robots[0].Name)
	assert.Equal(t, "online", robots[0].Status)
	assert.Equal(t, "55%", robots[0].Charge)
	assert.Equal(t, "A3", robots[0].Location)
}

func TestTelemetryUpdatesExistingRobot(t *testing.T) {
	db, svc := setupRobots(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, db, dto.CreateRobotRequest{
		Name: "palbot-1", Location: "init", Status: "offline", Charge: "100%",
	})
	require.NoError(t, err)

	err = svc.ApplyTelemetry(ctx, db, dto.RobotTelemetry{
		RobotID: "palbot-1", Status: "error", Location: "A2",
	})
	require.NoError(t, err)

	robots, err := svc.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, robots, 1)
	assert.Equal(t, "error", robots[0].Status)
	assert.Equal(t, "A2", robots[0].Location)
	// Empty fields in the report leave existing values alone.
	assert.Equal(t, "100%", robots[0].Charge)
}
