package application

import (
	"encoding/json"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/task"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

type InstantiateMsg struct {
	managed.InstantiateMsg
	AppID string `json:"app_id"`
}

// TaskCreateModel is what the admin supplies for a new task. The
// application assigns the id.
type TaskCreateModel struct {
	Name                     string          `json:"name" validate:"required"`
	Description              string          `json:"description,omitempty"`
	StartDate                time.Time       `json:"start_date" validate:"required"`
	EndDate                  *time.Time      `json:"end_date,omitempty"`
	RewardThreshold          int32           `json:"reward_threshold"`
	BondAmount               []coin.Coin     `json:"bond_amount" validate:"required,min=1"`
	ExecMsg                  json.RawMessage `json:"exec_msg,omitempty"`
	TargetExecutableContract string          `json:"target_executable_contract" validate:"required"`
}

type ExecuteMsg interface {
	chain.Variant
	isApplicationMsg()
}

type ManagedServiceMessage struct {
	Message json.RawMessage `json:"message" validate:"required"`
}

type AddNewTask struct {
	Task TaskCreateModel `json:"task"`
}

// UpdateTaskCodeID sets or clears the code id new tasks are instantiated from.
type UpdateTaskCodeID struct {
	TaskCodeID *uint64 `json:"task_code_id"`
}

type AddNodeToTask struct {
	TaskAddress string `json:"task_address" validate:"required"`
}

type UpdateTaskStatus struct {
	TaskID uint64      `json:"task_id" validate:"required"`
	Status task.Status `json:"status" validate:"required"`
}

func (*ManagedServiceMessage) VariantName() string { return "managed_service_message" }
func (*AddNewTask) VariantName() string            { return "add_new_task" }
func (*UpdateTaskCodeID) VariantName() string      { return "update_task_code_id" }
func (*AddNodeToTask) VariantName() string         { return "add_node_to_task" }
func (*UpdateTaskStatus) VariantName() string      { return "update_task_status" }

func (*ManagedServiceMessage) isApplicationMsg() {}
func (*AddNewTask) isApplicationMsg()            {}
func (*UpdateTaskCodeID) isApplicationMsg()      {}
func (*AddNodeToTask) isApplicationMsg()         {}
func (*UpdateTaskStatus) isApplicationMsg()      {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("application_execute_msg",
	&ManagedServiceMessage{}, &AddNewTask{}, &UpdateTaskCodeID{}, &AddNodeToTask{}, &UpdateTaskStatus{},
)

type QueryMsg interface {
	chain.Variant
	isApplicationQuery()
}

type GetInfo struct{}

type GetName struct{}

type GetTask struct {
	TaskID       uint64 `json:"task_id" validate:"required"`
	XNodeAddress string `json:"xnode_address,omitempty"`
}

func (*GetInfo) VariantName() string { return "get_info" }
func (*GetName) VariantName() string { return "get_name" }
func (*GetTask) VariantName() string { return "get_task" }

func (*GetInfo) isApplicationQuery() {}
func (*GetName) isApplicationQuery() {}
func (*GetTask) isApplicationQuery() {}

var queryMsgs = chain.NewUnion[QueryMsg]("application_query_msg", &GetInfo{}, &GetName{}, &GetTask{})

type AppTaskInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type TaskInfoResponse struct {
	AppInfo  AppTaskInfo   `json:"app_info"`
	TaskInfo task.Response `json:"task_info"`
	XNode    *task.XNode   `json:"x_node,omitempty"`
}

// TaskResponse is null when the task id is unknown.
type TaskResponse struct {
	Task *TaskInfoResponse `json:"task"`
}
