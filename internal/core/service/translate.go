package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"
)

// Translate derives the single vendor command representing a desired
// state. Position takes priority over function levels; an inactive
// state maps to Stop. Function commands always carry an explicit
// zero duration so the toy keeps running until told otherwise.
func Translate(toyId string, state domain.DesiredState) lovense.Command {
	if state.Position != nil {
		return lovense.Command{
			Command: lovense.CommandPosition,
			Value:   strconv.Itoa(*state.Position),
			Toy:     toyId,
			ApiVer:  1,
		}
	}

	var actions []string
	if state.Vibration > 0 {
		actions = append(actions, fmt.Sprintf("%s:%d", lovense.ActionVibrate, state.Vibration))
	}
	if state.Stroke != nil {
		actions = append(actions, fmt.Sprintf("Stroke:%d-%d", state.Stroke.Low, state.Stroke.High))
	}
	if state.Thrusting > 0 {
		actions = append(actions, fmt.Sprintf("%s:%d", lovense.ActionThrusting, state.Thrusting))
	}

	zero := 0
	if len(actions) == 0 {
		return lovense.Command{
			Command: lovense.CommandFunction,
			Action:  lovense.ActionStop,
			TimeSec: &zero,
			Toy:     toyId,
			ApiVer:  1,
		}
	}
	return lovense.Command{
		Command: lovense.CommandFunction,
		Action:  strings.Join(actions, ","),
		TimeSec: &zero,
		Toy:     toyId,
		ApiVer:  1,
	}
}
