package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/application"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/contracttest"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/task"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

const (
	appAdmin = "wasm1appadmin"
	node     = "wasm1node"
)

func newApplication(t *testing.T, n *contracttest.Network) string {
	t.Helper()
	res, err := n.Instantiate(n.Codes.Application, contracttest.Creator, application.InstantiateMsg{
		InstantiateMsg: managed.InstantiateMsg{Name: "Price Oracle", Admin: appAdmin, ManagingContract: n.Manager},
		AppID:          "oracle-1",
	}, "application")
	require.NoError(t, err)
	return res.ContractAddress
}

func priceFeed(start time.Time) application.TaskCreateModel {
	return application.TaskCreateModel{
		Name:                     "Price feed",
		Description:              "Publish the ujuno price every block",
		StartDate:                start,
		BondAmount:               []coin.Coin{coin.New(500, contracttest.Denom)},
		TargetExecutableContract: "wasm1target",
	}
}

func TestApplication_RegistersWithManager(t *testing.T) {
	t.Parallel()

	n := contracttest.New(t)
	app := newApplication(t, n)

	record := contracttest.Query[managermsg.AssetResponse](n, n.Manager, &managermsg.GetManagedContract{ContractAddress: app}).Asset
	assert.Equal(t, asset.TypeApplication, record.Type)
	assert.Equal(t, appAdmin, record.Owner)

	name := contracttest.Query[managed.NameResponse](n, app, &application.GetName{})
	assert.Equal(t, "Price Oracle", name.Name)
}

func TestApplication_TaskLifecycle(t *testing.T) {
	t.Parallel()

	n := contracttest.New(t)
	app := newApplication(t, n)

	_, err := n.Execute(app, appAdmin, &application.AddNewTask{Task: priceFeed(n.Now().Add(time.Hour))})
	require.ErrorIs(t, err, application.ErrTaskContractCodeIDNotSet)

	codeID := n.Codes.Task
	_, err = n.Execute(app, node, &application.UpdateTaskCodeID{TaskCodeID: &codeID})
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
	n.MustExecute(app, appAdmin, &application.UpdateTaskCodeID{TaskCodeID: &codeID})

	res := n.MustExecute(app, appAdmin, &application.AddNewTask{Task: priceFeed(n.Now().Add(time.Hour))})
	taskAddr := contracttest.Attr(res.Events, "task_address")
	require.NotEmpty(t, taskAddr)
	assert.Equal(t, "1", contracttest.Attr(res.Events, "task_id"))

	found := contracttest.Query[application.TaskResponse](n, app, &application.GetTask{TaskID: 1})
	require.NotNil(t, found.Task)
	assert.Equal(t, "oracle-1", found.Task.AppInfo.ID)
	assert.Equal(t, app, found.Task.AppInfo.Address)
	assert.Equal(t, "Price feed", found.Task.TaskInfo.Name)
	assert.Equal(t, app, found.Task.TaskInfo.Application)
	assert.Equal(t, task.StatusPending, found.Task.TaskInfo.Status)

	missing := contracttest.Query[application.TaskResponse](n, app, &application.GetTask{TaskID: 42})
	assert.Nil(t, missing.Task)

	n.Mint(node, 1000)
	bond := coin.New(500, contracttest.Denom)

	// Pending tasks take no nodes.
	_, err = n.Execute(app, node, &application.AddNodeToTask{TaskAddress: taskAddr}, bond)
	require.ErrorIs(t, err, usecase.ErrUnauthorized)

	n.MustExecute(app, appAdmin, &application.UpdateTaskStatus{TaskID: 1, Status: task.StatusEnabled})
	found = contracttest.Query[application.TaskResponse](n, app, &application.GetTask{TaskID: 1})
	require.NotNil(t, found.Task)
	assert.Equal(t, task.StatusEnabled, found.Task.TaskInfo.Status)

	_, err = n.Execute(app, node, &application.AddNodeToTask{TaskAddress: taskAddr}, coin.New(100, contracttest.Denom))
	require.ErrorIs(t, err, application.ErrInsufficientBond)

	res = n.MustExecute(app, node, &application.AddNodeToTask{TaskAddress: taskAddr}, bond)
	assert.Equal(t, node, contracttest.Attr(res.Events, "xnode_address"))
	assert.EqualValues(t, 500, n.Balance(taskAddr))
	assert.EqualValues(t, 500, n.Balance(node))

	withNode := contracttest.Query[application.TaskResponse](n, app, &application.GetTask{TaskID: 1, XNodeAddress: node})
	require.NotNil(t, withNode.Task)
	require.NotNil(t, withNode.Task.XNode)
	assert.Equal(t, task.NodePending, withNode.Task.XNode.Status)
	assert.Equal(t, []coin.Coin{bond}, withNode.Task.XNode.BondedAmount)

	// A failed enrollment comes back through the reply and aborts the bond transfer.
	_, err = n.Execute(app, node, &application.AddNodeToTask{TaskAddress: taskAddr}, bond)
	require.ErrorIs(t, err, application.ErrParseReplyData)
	assert.EqualValues(t, 500, n.Balance(node))
	assert.EqualValues(t, 500, n.Balance(taskAddr))
}

func TestApplication_FailedTaskInstantiateIsReported(t *testing.T) {
	t.Parallel()

	n := contracttest.New(t)
	app := newApplication(t, n)

	// Team contracts refuse to be created by the application.
	wrongCode := n.Codes.Team
	n.MustExecute(app, appAdmin, &application.UpdateTaskCodeID{TaskCodeID: &wrongCode})

	_, err := n.Execute(app, appAdmin, &application.AddNewTask{Task: priceFeed(n.Now().Add(time.Hour))})
	require.ErrorIs(t, err, application.ErrParseReplyData)

	found := contracttest.Query[application.TaskResponse](n, app, &application.GetTask{TaskID: 1})
	assert.Nil(t, found.Task)
}

func TestApplication_AddNodeToUnknownTask(t *testing.T) {
	t.Parallel()

	n := contracttest.New(t)
	app := newApplication(t, n)

	_, err := n.Execute(app, node, &application.AddNodeToTask{TaskAddress: "wasm1nowhere"})
	assert.ErrorIs(t, err, application.ErrTaskNotFound)
}

func TestTask_OnlyItsApplicationMayExecute(t *testing.T) {
	t.Parallel()

	n := contracttest.New(t)
	app := newApplication(t, n)
	codeID := n.Codes.Task
	n.MustExecute(app, appAdmin, &application.UpdateTaskCodeID{TaskCodeID: &codeID})
	res := n.MustExecute(app, appAdmin, &application.AddNewTask{Task: priceFeed(n.Now().Add(time.Hour))})
	taskAddr := contracttest.Attr(res.Events, "task_address")

	_, err := n.Execute(taskAddr, appAdmin, &task.UpdateStatus{Status: task.StatusEnabled})
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	name := contracttest.Query[task.NameResponse](n, taskAddr, &task.GetName{})
	assert.Equal(t, "Price feed", name.Name)
}
