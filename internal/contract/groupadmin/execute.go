package groupadmin

import (
	"encoding/json"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

// ExecuteMsg is one of AddHookMsg, RemoveHookMsg, UpdateAdminMsg or UpdateMembersMsg.
type ExecuteMsg interface {
	chain.Variant
	isGroupAdminMsg()
}

type AddHookMsg struct {
	Addr string `json:"addr" validate:"required"`
}

type RemoveHookMsg struct {
	Addr string `json:"addr" validate:"required"`
}

type UpdateAdminMsg struct {
	AdminAddr *string `json:"admin_addr"`
}

type UpdateMembersMsg struct {
	Remove []string `json:"remove"`
	Add    []Member `json:"add" validate:"dive"`
}

func (*AddHookMsg) VariantName() string       { return "add_hook" }
func (*RemoveHookMsg) VariantName() string    { return "remove_hook" }
func (*UpdateAdminMsg) VariantName() string   { return "update_admin" }
func (*UpdateMembersMsg) VariantName() string { return "update_members" }

func (*AddHookMsg) isGroupAdminMsg()       {}
func (*RemoveHookMsg) isGroupAdminMsg()    {}
func (*UpdateAdminMsg) isGroupAdminMsg()   {}
func (*UpdateMembersMsg) isGroupAdminMsg() {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("group_admin_hooks_msg",
	&AddHookMsg{}, &RemoveHookMsg{}, &UpdateAdminMsg{}, &UpdateMembersMsg{},
)

func DecodeExecuteMsg(raw json.RawMessage) (ExecuteMsg, error) {
	return executeMsgs.Decode(raw)
}

// Execute runs a roster message on behalf of sender against the contract's store.
func Execute(store kv.Store, sender string, msg ExecuteMsg) (*chain.Response, error) {
	res := chain.NewResponse()
	switch m := msg.(type) {
	case *AddHookMsg:
		if err := AddHook(store, sender, m.Addr); err != nil {
			return nil, err
		}
		return res.AddAttribute("action", "add_hook").AddAttribute("hook", m.Addr).AddAttribute("sender", sender), nil
	case *RemoveHookMsg:
		if err := RemoveHook(store, sender, m.Addr); err != nil {
			return nil, err
		}
		return res.AddAttribute("action", "remove_hook").AddAttribute("hook", m.Addr).AddAttribute("sender", sender), nil
	case *UpdateAdminMsg:
		if err := UpdateAdmin(store, sender, m.AdminAddr); err != nil {
			return nil, err
		}
		admin := "none"
		if m.AdminAddr != nil && *m.AdminAddr != "" {
			admin = *m.AdminAddr
		}
		return res.AddAttribute("action", "update_admin").AddAttribute("admin", admin).AddAttribute("sender", sender), nil
	case *UpdateMembersMsg:
		diffs, err := UpdateMembers(store, sender, m.Remove, m.Add)
		if err != nil {
			return nil, err
		}
		hooks, err := HookMessages(store, diffs)
		if err != nil {
			return nil, err
		}
		for _, hook := range hooks {
			res.AddMessage(hook)
		}
		return res.AddAttribute("action", "update_members").AddAttribute("sender", sender), nil
	default:
		return nil, chain.ErrInvalidMessage
	}
}
