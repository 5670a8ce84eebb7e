package services

import (
	"testing"

	"borla-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExpectedMinutes(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 5, p.ExpectedMinutes(models.PropertyResidential))
	assert.Equal(t, 10, p.ExpectedMinutes(models.PropertyCommercial))
	assert.Equal(t, 7, p.ExpectedMinutes(models.PropertyOther))
	assert.Equal(t, 7, p.ExpectedMinutes(""))
}

func TestIncentive(t *testing.T) {
	p := DefaultPolicy()
	// 4 completed stops, 6.2 km: 4*10 + 6.2*0.5
	assert.InDelta(t, 43.1, p.Incentive(4, 6.2), 0.0001)
	assert.Equal(t, 0.0, p.Incentive(0, 0))
}

func TestPolicyFromEnvOverrides(t *testing.T) {
	t.Setenv("AVERAGE_SPEED_KMH", "30")
	t.Setenv("INCENTIVE_PER_STOP", "15")
	t.Setenv("INCENTIVE_PER_KM", "1.25")

	p := PolicyFromEnv()
	assert.Equal(t, 30.0, p.AverageSpeedKmh)
	assert.Equal(t, 15.0, p.PerStopRate)
	assert.Equal(t, 1.25, p.DistanceBonusRate)
}

func TestPolicyFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("AVERAGE_SPEED_KMH", "not-a-number")
	p := PolicyFromEnv()
	assert.Equal(t, 40.0, p.AverageSpeedKmh)
}
