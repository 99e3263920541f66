// Package task is a unit of work an application hands out to execution
// nodes. Each task is its own contract instance created by the application.
package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

var (
	ErrInvalidStatus    = usecase.NewKindError(usecase.ErrInvalidInput, "invalid task status")
	ErrNodeAlreadyAdded = usecase.NewKindError(usecase.ErrConflict, "node already added to task")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusEnabled   Status = "enabled"
	StatusDisabled  Status = "disabled"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusEnabled, StatusDisabled, StatusSuspended:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type NodeStatus string

const (
	NodeApproved  NodeStatus = "approved"
	NodeDenied    NodeStatus = "denied"
	NodePending   NodeStatus = "pending"
	NodeSuspended NodeStatus = "suspended"
)

// XNode is an execution node that bonded funds to work on a task.
type XNode struct {
	NodeAddress  string      `json:"node_address"`
	BondedAmount []coin.Coin `json:"bonded_amount"`
	Status       NodeStatus  `json:"status"`
}

// Task is the stored task definition.
type Task struct {
	ID                       uint64          `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description,omitempty"`
	Admin                    string          `json:"admin"`
	Application              string          `json:"application_addr"`
	StartDate                time.Time       `json:"start_date"`
	EndDate                  *time.Time      `json:"end_date,omitempty"`
	RewardThreshold          int32           `json:"reward_threshold"`
	BondAmount               []coin.Coin     `json:"bond_amount"`
	ExecMsg                  json.RawMessage `json:"exec_msg,omitempty"`
	TargetExecutableContract string          `json:"target_executable_contract"`
	Status                   Status          `json:"status"`
}

// Info is the summary of a task the application keeps.
type Info struct {
	TaskID                   uint64          `json:"task_id"`
	TaskAddress              string          `json:"task_address"`
	Status                   Status          `json:"status"`
	ExecMsg                  json.RawMessage `json:"exec_msg,omitempty"`
	TargetExecutableContract string          `json:"target_executable_contract"`
	BondAmount               []coin.Coin     `json:"bond_amount"`
}

// Data is returned as instantiate data and stored by the application once
// it has assigned the task id.
type Data struct {
	TaskID      uint64 `json:"task_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TaskData    *Info  `json:"task_data,omitempty"`
}

var (
	state  = kv.NewItem[Task]("task")
	xnodes = kv.NewIndexedMap[XNode]("xnodes")
)

type InstantiateMsg struct {
	TaskID                   uint64          `json:"task_id"`
	Name                     string          `json:"name" validate:"required"`
	Description              string          `json:"description,omitempty"`
	Admin                    string          `json:"admin"`
	StartDate                time.Time       `json:"start_date" validate:"required"`
	EndDate                  *time.Time      `json:"end_date,omitempty"`
	RewardThreshold          int32           `json:"reward_threshold"`
	BondAmount               []coin.Coin     `json:"bond_amount" validate:"required,min=1"`
	ExecMsg                  json.RawMessage `json:"exec_msg,omitempty"`
	TargetExecutableContract string          `json:"target_executable_contract" validate:"required"`
}

type ExecuteMsg interface {
	chain.Variant
	isTaskMsg()
}

type AddNode struct {
	XNodeAddress string `json:"xnode_address" validate:"required"`
}

type UpdateStatus struct {
	Status Status `json:"status" validate:"required"`
}

func (*AddNode) VariantName() string      { return "add_node" }
func (*UpdateStatus) VariantName() string { return "update_status" }

func (*AddNode) isTaskMsg()      {}
func (*UpdateStatus) isTaskMsg() {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("task_execute_msg", &AddNode{}, &UpdateStatus{})

type QueryMsg interface {
	chain.Variant
	isTaskQuery()
}

type GetInfo struct{}

type GetName struct{}

func (*GetInfo) VariantName() string { return "get_info" }
func (*GetName) VariantName() string { return "get_name" }

func (*GetInfo) isTaskQuery() {}
func (*GetName) isTaskQuery() {}

var queryMsgs = chain.NewUnion[QueryMsg]("task_query_msg", &GetInfo{}, &GetName{})

// Response is the task plus the nodes working on it.
type Response struct {
	Task
	XNodes []XNode `json:"xnodes"`
}

type InfoResponse struct {
	Data Response `json:"data"`
}

type NameResponse struct {
	Name string `json:"name"`
}
