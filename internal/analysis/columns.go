package analysis

import (
	"errors"
	"math"

	"github.com/user/drone_analyzer_go/internal/parser"
)

// Column names of the simulator exports, after whitespace trimming.
const (
	ColRunIndex = parser.RunIndexColumn

	// generalSimulationData
	ColCollidingDrones      = "numero total de drones colidentes"
	ColLaunchedStableWindow = "numero de drones lancados no tempo estavel"
	ColLaunchedTotal        = "numero total de drones lancados"

	// generalDroneData
	ColDroneID          = "drone ID"
	ColTravelTimeStable = "tempo de viagem total dos drones no tempo estavel"
	ColMaxAltitude      = "altitude maxima atingida"
	ColMinAltitude      = "altitude minima atingida"

	// droneCollisionData
	ColStagePair1     = "etapa da viagem dos pares que colidiram1"
	ColStagePair2     = "etapa da viagem dos pares que colidiram2"
	ColDetectedDrones = "numero de drones detectados na colisao"
	ColCollisionPosX  = "posicao da colisao no eixo x"
	ColCollisionPosZ  = "posicao da colisao no eixo z"
)

// wholeNumber converts a run index or stage code cell. NaN, infinite and
// fractional values are rejected.
func wholeNumber(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// ErrNoData is returned by metrics that need at least one observation.
var ErrNoData = errors.New("no data")
