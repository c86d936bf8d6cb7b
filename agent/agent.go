// Package agent drives a colony for one host connection: it decodes tick
// snapshots, runs the orchestrator over them and replies with the commands
// the tick produced.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/burrow/burrow-core/ipc"
	"github.com/nstehr/burrow/burrow-core/journal"
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/spawn"
	"github.com/nstehr/burrow/burrow-core/world"
)

// ColonyFactory wires the orchestrator and planner for one room over a store
// already scoped to that room.
type ColonyFactory func(store memory.Store) (*Orchestrator, *spawn.Planner)

// Session owns the decision-making for a single host connection. The
// colony is built on the first tick, with creep records scoped to the
// room, so sessions for different rooms can share one store.
type Session struct {
	ID     string
	Player string
	Room   string

	ctx           context.Context
	store         memory.Store
	newColony     ColonyFactory
	journal       *journal.TickJournal // nil disables journaling
	downgradeRisk int

	colonyRoom string
	spawnHint  string
	orch       *Orchestrator
	planner    *spawn.Planner
	prev       *colonySnapshot
}

func NewSession(ctx context.Context, store memory.Store, newColony ColonyFactory, j *journal.TickJournal, downgradeRisk int) *Session {
	return &Session{
		ID:            uuid.NewString(),
		ctx:           ctx,
		store:         store,
		newColony:     newColony,
		journal:       j,
		downgradeRisk: downgradeRisk,
	}
}

// colony returns the orchestrator for room, rebuilding it when the host
// switches rooms mid-session.
func (s *Session) colony(room string) *Orchestrator {
	if s.orch != nil && s.colonyRoom == room {
		return s.orch
	}
	if s.orch != nil {
		slog.Warn("host switched rooms", "session", s.ID, "from", s.colonyRoom, "to", room)
	}
	s.orch, s.planner = s.newColony(memory.Scope(s.store, room))
	s.colonyRoom = room
	s.prev = nil
	if s.spawnHint != "" {
		s.planner.UseSpawn(s.spawnHint)
	}
	return s.orch
}

// HandleHello completes the handshake so the host knows the core is ready.
func (s *Session) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	s.Player = hello.Player
	s.Room = hello.Room
	if hello.Spawn != "" {
		s.spawnHint = hello.Spawn
		if s.planner != nil {
			s.planner.UseSpawn(hello.Spawn)
		}
	}
	slog.Info("colony identified", "session", s.ID, "player", s.Player, "room", s.Room, "spawn", hello.Spawn)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTick runs one colony tick and replies with the issued commands.
func (s *Session) HandleTick(env ipc.Envelope) (*ipc.Envelope, error) {
	var ts ipc.TickMessage
	if err := json.Unmarshal(env.Data, &ts); err != nil {
		return nil, fmt.Errorf("unmarshal tick: %w", err)
	}

	slog.Debug("tick received",
		"session", s.ID,
		"tick", ts.Tick,
		"room", ts.Room.Name,
		"energy", fmt.Sprintf("%d/%d", ts.Room.EnergyAvailable, ts.Room.EnergyCapacityAvailable),
		"creeps", len(ts.Creeps),
		"sites", len(ts.ConstructionSites),
	)

	room := ts.Room.Name
	if room == "" {
		room = s.Room
	}
	w := world.NewSnapshot(ts)
	rep := s.colony(room).Tick(s.ctx, w)

	cur := takeSnapshot(ts, rep.RoleCounts)
	events := detectEvents(ts.Tick, cur, s.prev, s.downgradeRisk)
	s.prev = &cur
	logEvents(s.ID, events)

	commands := w.Commands()
	if commands == nil {
		commands = []ipc.Envelope{}
	}
	s.record(ts, rep, events, len(commands))

	reply, err := ipc.NewEnvelope(ipc.TypeCommands, ipc.CommandsMessage{Tick: ts.Tick, Commands: commands})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Session) record(ts model.TickState, rep Report, events []Event, commands int) {
	if s.journal == nil {
		return
	}
	e := journal.Entry{
		Session:   s.ID,
		Tick:      ts.Tick,
		Room:      ts.Room.Name,
		Energy:    ts.Room.EnergyAvailable,
		Creeps:    len(ts.Creeps),
		CreepsRun: rep.CreepsRun,
		Failures:  rep.Failures,
		Deleted:   rep.Deleted,
		Events:    eventKinds(events),
		Commands:  commands,
		Aborted:   rep.Aborted,
	}
	if rep.Spawn.Attempted {
		e.Spawn = &journal.Spawn{
			Role:   string(rep.Spawn.Role),
			Name:   rep.Spawn.Name,
			Body:   rep.Spawn.Body.Signature(),
			Result: rep.Spawn.Code.String(),
		}
	}
	if err := s.journal.WriteTick(e); err != nil {
		slog.Error("journal write failed", "session", s.ID, "tick", ts.Tick, "error", err)
	}
}
