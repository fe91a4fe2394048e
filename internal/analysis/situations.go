package analysis

import "fmt"

// NumSituations is the number of classified collision situations.
const NumSituations = 21

// NumTripStages is the size of the trip-stage code domain (0..5).
const NumTripStages = 6

// Trip stages reported by the simulator for each drone of a colliding pair.
const (
	StageTakeoff = iota
	StageOutbound
	StageDeliveryLanding
	StageDeliveryTakeoff
	StageReturn
	StageLanding
)

var stageNames = [NumTripStages]string{
	"takeoff", "outbound", "delivery landing", "delivery takeoff", "return", "landing",
}

// StageName returns a readable name for a trip-stage code.
func StageName(stage int) string {
	if stage < 0 || stage >= NumTripStages {
		return fmt.Sprintf("stage %d", stage)
	}
	return stageNames[stage]
}

// situationIndex maps an unordered stage pair to its situation. Only the
// a <= b half is stored; ClassifySituation normalizes the order.
var situationIndex = map[[2]int]int{
	{StageTakeoff, StageLanding}:                 0,
	{StageOutbound, StageOutbound}:               1,
	{StageReturn, StageReturn}:                   2,
	{StageTakeoff, StageReturn}:                  3,
	{StageDeliveryTakeoff, StageReturn}:          4,
	{StageOutbound, StageDeliveryTakeoff}:        5,
	{StageOutbound, StageDeliveryLanding}:        6,
	{StageTakeoff, StageTakeoff}:                 7,
	{StageOutbound, StageLanding}:                8,
	{StageDeliveryLanding, StageLanding}:         9,
	{StageTakeoff, StageDeliveryTakeoff}:         10,
	{StageReturn, StageLanding}:                  11,
	{StageLanding, StageLanding}:                 12,
	{StageDeliveryLanding, StageDeliveryLanding}: 13,
	{StageTakeoff, StageOutbound}:                14,
	{StageTakeoff, StageDeliveryLanding}:         15,
	{StageDeliveryLanding, StageDeliveryTakeoff}: 16,
	{StageDeliveryLanding, StageReturn}:          17,
	{StageDeliveryTakeoff, StageDeliveryTakeoff}: 18,
	{StageDeliveryTakeoff, StageLanding}:         19,
	{StageOutbound, StageReturn}:                 20,
}

// situationCategories groups situation indices. Order is display order.
var situationCategories = []struct {
	Name    string
	Members []int
}{
	{"Takeoff", []int{3, 4, 5, 14}},
	{"Landing", []int{6, 8, 11, 17}},
	{"Landing and take-off", []int{0, 7, 9, 10, 12, 13, 15, 16, 18, 19}},
	{"Cruise", []int{20, 1, 2}},
}

// ClassifySituation maps the trip stages of two colliding drones to a
// situation index. (a, b) and (b, a) classify identically; pairs outside the
// table report ok == false.
func ClassifySituation(a, b int) (int, bool) {
	if a > b {
		a, b = b, a
	}
	idx, ok := situationIndex[[2]int{a, b}]
	return idx, ok
}

// SituationLabel describes a situation by its stage pair.
func SituationLabel(idx int) string {
	for pair, i := range situationIndex {
		if i == idx {
			return fmt.Sprintf("%s / %s", StageName(pair[0]), StageName(pair[1]))
		}
	}
	return fmt.Sprintf("situation %d", idx)
}

// SituationCategories returns the category names in display order.
func SituationCategories() []string {
	out := make([]string, len(situationCategories))
	for i, c := range situationCategories {
		out[i] = c.Name
	}
	return out
}

// CategoryMembers returns the situation indices summed into a category.
func CategoryMembers(category string) []int {
	for _, c := range situationCategories {
		if c.Name == category {
			out := make([]int, len(c.Members))
			copy(out, c.Members)
			return out
		}
	}
	return nil
}
