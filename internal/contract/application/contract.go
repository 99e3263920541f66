// Package application is the application asset contract. It instantiates
// task contracts from a configured code id and enrolls execution nodes on
// them, learning the outcome of both through replies.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/task"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

const (
	InstantiateReplyID   uint64 = 1
	AddNodeToTaskReplyID uint64 = 2

	taskLabel = "task_creation"
)

var (
	ErrTaskContractCodeIDNotSet = usecase.NewKindError(usecase.ErrInvalidInput, "task contract code id not set")
	ErrTaskNotFound             = usecase.NewKindError(usecase.ErrNotFound, "task not found")
	ErrInsufficientBond         = usecase.NewKindError(usecase.ErrFunding, "insufficient bond sent")
	ErrReplyProcessingFailed    = usecase.NewKindError(usecase.ErrReplyProcessing, "reply processing failed")
	ErrParseReplyData           = usecase.NewKindError(usecase.ErrReplyProcessing, "parse reply data error")
	ErrInvalidReplyID           = usecase.NewKindError(usecase.ErrReplyProcessing, "invalid reply id")
)

type Data struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Created    chain.BlockInfo `json:"created"`
	TaskCount  uint64          `json:"task_count"`
	TaskCodeID *uint64         `json:"task_contract_code_id,omitempty"`
}

var (
	state = kv.NewItem[Data]("application")
	tasks = kv.NewIndexedMap[task.Data]("tasks").
		WithIndex("address", func(_ []byte, d task.Data) []byte {
			if d.TaskData == nil {
				return nil
			}
			return kv.Tuple(kv.String(d.TaskData.TaskAddress))
		})
)

type Contract struct {
	creators policy.CreatorPolicy
}

func New(creators policy.CreatorPolicy) *Contract {
	return &Contract{creators: creators}
}

func (c *Contract) Instantiate(_ context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := chain.Decode(raw, &msg); err != nil {
		return nil, err
	}
	if err := c.creators.Authorize(info.Sender); err != nil {
		return nil, err
	}
	data := Data{
		ID:      msg.AppID,
		Name:    msg.Name,
		Address: env.Contract.Address,
		Created: env.Block,
	}
	if err := state.Save(deps.Storage, data); err != nil {
		return nil, crerr.Wrap(err, "save application")
	}
	return managed.Init(deps.Storage, info.Sender, msg.Params(asset.TypeApplication), managed.ManagerCallbacks())
}

func (c *Contract) Execute(ctx context.Context, deps chain.Deps, _ chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	msg, err := executeMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *ManagedServiceMessage:
		inner, err := managed.DecodeExecuteMsg(m.Message)
		if err != nil {
			return nil, err
		}
		return managed.Exec(ctx, deps, info, inner, true, managed.ManagerCallbacks())
	case *AddNewTask:
		return addNewTask(deps.Storage, info.Sender, m.Task)
	case *UpdateTaskCodeID:
		return updateTaskCodeID(deps.Storage, info.Sender, m.TaskCodeID)
	case *AddNodeToTask:
		return addNodeToTask(deps.Storage, info, m.TaskAddress)
	case *UpdateTaskStatus:
		return updateTaskStatus(deps.Storage, info.Sender, m.TaskID, m.Status)
	default:
		return nil, chain.ErrInvalidMessage
	}
}

func loadState(store kv.Reader) (Data, error) {
	data, err := state.Load(store)
	if err != nil {
		return Data{}, crerr.Wrap(err, "load application")
	}
	return data, nil
}

// addNewTask instantiates a task contract. The task is only recorded once
// the instantiate reply comes back.
func addNewTask(store kv.Store, sender string, model TaskCreateModel) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	data, err := loadState(store)
	if err != nil {
		return nil, err
	}
	if data.TaskCodeID == nil {
		return nil, ErrTaskContractCodeIDNotSet
	}

	body, err := chain.Marshal(task.InstantiateMsg{
		TaskID:                   data.TaskCount + 1,
		Name:                     model.Name,
		Description:              model.Description,
		Admin:                    sender,
		StartDate:                model.StartDate,
		EndDate:                  model.EndDate,
		RewardThreshold:          model.RewardThreshold,
		BondAmount:               model.BondAmount,
		ExecMsg:                  model.ExecMsg,
		TargetExecutableContract: model.TargetExecutableContract,
	})
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "create_task").
		AddAttribute("sender", sender).
		AddSubMessage(chain.SubMsg{
			ID:      InstantiateReplyID,
			Msg:     chain.WasmInstantiate{CodeID: *data.TaskCodeID, Msg: body, Label: taskLabel},
			ReplyOn: chain.ReplyAlways,
		}), nil
}

func updateTaskCodeID(store kv.Store, sender string, codeID *uint64) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	data, err := loadState(store)
	if err != nil {
		return nil, err
	}
	data.TaskCodeID = codeID
	if err := state.Save(store, data); err != nil {
		return nil, crerr.Wrap(err, "save application")
	}
	res := chain.NewResponse().AddAttribute("action", "update_task_code_id")
	if codeID != nil {
		res.AddAttribute("task_code_id", strconv.FormatUint(*codeID, 10))
	}
	return res, nil
}

func findTaskByAddress(store kv.Reader, addr string) (task.Data, error) {
	records, err := tasks.Index("address").Prefix(store, kv.Tuple(kv.String(addr)))
	if err != nil {
		return task.Data{}, crerr.Wrap(err, "find task by address")
	}
	if len(records) == 0 {
		return task.Data{}, fmt.Errorf("%w: address=%s", ErrTaskNotFound, addr)
	}
	return records[0].Value, nil
}

// addNodeToTask enrolls the sender as an execution node. The sender must
// attach at least the task's bond; the funds travel on to the task.
func addNodeToTask(store kv.Reader, info chain.MessageInfo, taskAddr string) (*chain.Response, error) {
	td, err := findTaskByAddress(store, taskAddr)
	if err != nil {
		return nil, err
	}
	if td.TaskData.Status != task.StatusEnabled {
		return nil, usecase.Unauthorized(info.Sender)
	}
	data, err := loadState(store)
	if err != nil {
		return nil, err
	}
	if data.TaskCodeID == nil {
		return nil, ErrTaskContractCodeIDNotSet
	}
	for _, required := range td.TaskData.BondAmount {
		if coin.AmountOf(info.Funds, required.Denom) < required.Amount {
			return nil, fmt.Errorf("%w: required=%s sent=%s", ErrInsufficientBond, required, coin.Format(info.Funds))
		}
	}

	body, err := chain.Encode(&task.AddNode{XNodeAddress: info.Sender})
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "add_node_to_task").
		AddAttribute("sender", info.Sender).
		AddSubMessage(chain.SubMsg{
			ID:      AddNodeToTaskReplyID,
			Msg:     chain.WasmExecute{ContractAddr: taskAddr, Msg: body, Funds: info.Funds},
			ReplyOn: chain.ReplyAlways,
		}), nil
}

// updateTaskStatus changes the status in the application's record and on the
// task contract itself.
func updateTaskStatus(store kv.Store, sender string, taskID uint64, status task.Status) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", task.ErrInvalidStatus, status)
	}
	td, found, err := tasks.May(store, kv.Uint64(taskID))
	if err != nil {
		return nil, crerr.Wrap(err, "load task")
	}
	if !found || td.TaskData == nil {
		return nil, fmt.Errorf("%w: task_id=%d", ErrTaskNotFound, taskID)
	}
	td.TaskData.Status = status
	if err := tasks.Save(store, kv.Uint64(taskID), td); err != nil {
		return nil, crerr.Wrap(err, "save task")
	}

	body, err := chain.Encode(&task.UpdateStatus{Status: status})
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "update_task_status").
		AddAttribute("task_id", strconv.FormatUint(taskID, 10)).
		AddAttribute("status", string(status)).
		AddMessage(chain.WasmExecute{ContractAddr: td.TaskData.TaskAddress, Msg: body}), nil
}

func (c *Contract) Reply(_ context.Context, deps chain.Deps, _ chain.Env, reply chain.Reply) (*chain.Response, error) {
	switch reply.ID {
	case InstantiateReplyID:
		return handleInstantiateReply(deps.Storage, reply.Result)
	case AddNodeToTaskReplyID:
		return handleAddNodeReply(reply.Result)
	default:
		return nil, fmt.Errorf("%w: invalid reply id: %d", ErrInvalidReplyID, reply.ID)
	}
}

// handleInstantiateReply records the new task under the next task id.
func handleInstantiateReply(store kv.Store, result chain.SubMsgResult) (*chain.Response, error) {
	if !result.OK() {
		return nil, fmt.Errorf("%w: %s", ErrParseReplyData, result.Err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: instantiate reply carried no data", ErrReplyProcessingFailed)
	}
	var td task.Data
	if err := chain.Decode(result.Data, &td); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseReplyData, err)
	}
	if td.TaskData == nil {
		return nil, fmt.Errorf("%w: instantiate reply carried no task data", ErrReplyProcessingFailed)
	}

	data, err := loadState(store)
	if err != nil {
		return nil, err
	}
	id := data.TaskCount + 1
	td.TaskID = id
	td.TaskData.TaskID = id
	if td.TaskData.TaskAddress == "" {
		td.TaskData.TaskAddress = result.ContractAddress
	}
	if err := tasks.Save(store, kv.Uint64(id), td); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReplyProcessingFailed, err)
	}
	data.TaskCount = id
	if err := state.Save(store, data); err != nil {
		return nil, crerr.Wrap(err, "save application")
	}
	return chain.NewResponse().
		AddAttribute("action", "task_created").
		AddAttribute("task_id", strconv.FormatUint(id, 10)).
		AddAttribute("task_address", td.TaskData.TaskAddress), nil
}

func handleAddNodeReply(result chain.SubMsgResult) (*chain.Response, error) {
	if !result.OK() {
		return nil, fmt.Errorf("%w: %s", ErrParseReplyData, result.Err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: add node reply carried no data", ErrReplyProcessingFailed)
	}
	var node task.XNode
	if err := chain.Decode(result.Data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseReplyData, err)
	}
	return chain.NewResponse().
		AddAttribute("action", "node_added").
		AddAttribute("xnode_address", node.NodeAddress), nil
}

func (c *Contract) Query(ctx context.Context, deps chain.Deps, _ chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := queryMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	data, err := loadState(deps.Storage)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *GetInfo:
		res, err := managed.QueryInfo(deps.Storage, data)
		if err != nil {
			return nil, err
		}
		return chain.Marshal(res)
	case *GetName:
		return chain.Marshal(managed.NameResponse{Name: data.Name})
	case *GetTask:
		res, err := queryTask(ctx, deps, data, m)
		if err != nil {
			return nil, err
		}
		return chain.Marshal(res)
	default:
		return nil, chain.ErrInvalidMessage
	}
}

func queryTask(ctx context.Context, deps chain.Deps, data Data, m *GetTask) (TaskResponse, error) {
	td, found, err := tasks.May(deps.Storage, kv.Uint64(m.TaskID))
	if err != nil {
		return TaskResponse{}, crerr.Wrap(err, "load task")
	}
	if !found || td.TaskData == nil {
		return TaskResponse{}, nil
	}

	body, err := chain.Encode(&task.GetInfo{})
	if err != nil {
		return TaskResponse{}, err
	}
	raw, err := deps.Querier.QueryContract(ctx, td.TaskData.TaskAddress, body)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("query task %s: %w", td.TaskData.TaskAddress, err)
	}
	var info task.InfoResponse
	if err := chain.Decode(raw, &info); err != nil {
		return TaskResponse{}, err
	}

	out := &TaskInfoResponse{
		AppInfo:  AppTaskInfo{ID: data.ID, Name: data.Name, Address: data.Address},
		TaskInfo: info.Data,
	}
	if m.XNodeAddress != "" {
		for _, node := range info.Data.XNodes {
			if node.NodeAddress == m.XNodeAddress {
				node := node
				out.XNode = &node
				break
			}
		}
	}
	return TaskResponse{Task: out}, nil
}
