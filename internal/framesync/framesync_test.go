package framesync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelight/enginecore/vulkango"
)

func TestFramesInFlightIsTwo(t *testing.T) {
	assert.Equal(t, 2, FramesInFlight)
}

func TestToResultCodeUnwrapsVulkanoResult(t *testing.T) {
	assert.Equal(t, vulkango.OUT_OF_DATE, toResultCode(vulkango.OUT_OF_DATE))
	assert.Equal(t, vulkango.SUBOPTIMAL, toResultCode(vulkango.SUBOPTIMAL))
}

func TestToResultCodeReturnsZeroForNonResultErrors(t *testing.T) {
	assert.Equal(t, vulkango.Result(0), toResultCode(assertErr{}))
}

type assertErr struct{}

func (assertErr) Error() string { return "not a vulkango.Result" }
