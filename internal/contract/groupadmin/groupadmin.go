// Package groupadmin keeps a contract's weighted owner roster, its admin and
// the addresses notified when the roster changes.
package groupadmin

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

const (
	DefaultLimit = 10
	MaxLimit     = 30
	MinOwners    = 1
	MaxOwners    = 10
)

var (
	ErrOwnershipMembersRequirementNotMet = usecase.NewKindError(usecase.ErrInvalidInput,
		fmt.Sprintf("owner count requirement not met: minimum of %d, maximum of %d", MinOwners, MaxOwners))
	ErrHookAlreadyRegistered = usecase.NewKindError(usecase.ErrConflict, "hook already registered")
	ErrHookNotRegistered     = usecase.NewKindError(usecase.ErrNotFound, "hook not registered")
)

type Member struct {
	Addr   string `json:"addr" validate:"required"`
	Weight uint64 `json:"weight"`
}

// MemberDiff describes one roster change. A nil weight means absent.
type MemberDiff struct {
	Key       string  `json:"key"`
	OldWeight *uint64 `json:"old,omitempty"`
	NewWeight *uint64 `json:"new,omitempty"`
}

var (
	adminItem = kv.NewItem[string]("admin")
	totalItem = kv.NewItem[uint64]("total")
	hooksItem = kv.NewItem[[]string]("hooks")
)

// Members are keyed by the raw address so ranges come back in address order.
var members = kv.NewIndexedMap[Member]("members")

// Init writes the initial roster. An empty admin leaves the contract without one.
func Init(store kv.Store, admin string, initial []Member) error {
	if admin != "" {
		if err := adminItem.Save(store, admin); err != nil {
			return crerr.Wrap(err, "save admin")
		}
	}
	var total uint64
	for _, m := range initial {
		m.Addr = strings.TrimSpace(m.Addr)
		if m.Addr == "" {
			return fmt.Errorf("%w: member address is required", usecase.ErrInvalidInput)
		}
		old, existed, err := members.May(store, []byte(m.Addr))
		if err != nil {
			return crerr.Wrap(err, "load member")
		}
		if existed {
			total -= old.Weight
		}
		if err := members.Save(store, []byte(m.Addr), m); err != nil {
			return crerr.Wrap(err, "save member")
		}
		total += m.Weight
	}
	return totalItem.Save(store, total)
}

// Admin returns the current admin, or "" when none is set.
func Admin(store kv.Reader) (string, error) {
	admin, _, err := adminItem.May(store)
	if err != nil {
		return "", crerr.Wrap(err, "load admin")
	}
	return admin, nil
}

func AssertAdmin(store kv.Reader, sender string) error {
	admin, err := Admin(store)
	if err != nil {
		return err
	}
	if admin == "" || admin != sender {
		return usecase.Unauthorized(sender)
	}
	return nil
}

// UpdateAdmin hands the admin role over. A nil admin clears it.
func UpdateAdmin(store kv.Store, sender string, admin *string) error {
	if err := AssertAdmin(store, sender); err != nil {
		return err
	}
	if admin == nil || strings.TrimSpace(*admin) == "" {
		return adminItem.Remove(store)
	}
	return adminItem.Save(store, strings.TrimSpace(*admin))
}

// ListMembers pages through the roster in ascending address order. startAfter
// is exclusive; limit defaults to DefaultLimit and is capped at MaxLimit.
func ListMembers(store kv.Reader, startAfter string, limit int) ([]Member, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	var start []byte
	if startAfter != "" {
		start = kv.After([]byte(startAfter))
	}
	records, err := members.Range(store, start, nil, limit)
	if err != nil {
		return nil, crerr.Wrap(err, "list members")
	}
	out := make([]Member, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out, nil
}

func AllMembers(store kv.Reader) ([]Member, error) {
	records, err := members.All(store)
	if err != nil {
		return nil, crerr.Wrap(err, "list members")
	}
	out := make([]Member, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out, nil
}

func TotalWeight(store kv.Reader) (uint64, error) {
	total, _, err := totalItem.May(store)
	return total, err
}

// ValidateOwnerCount checks the roster that would result from applying the
// change, before anything is written.
func ValidateOwnerCount(store kv.Reader, remove []string, add []Member) error {
	current, err := AllMembers(store)
	if err != nil {
		return err
	}
	result := make(map[string]struct{}, len(current)+len(add))
	for _, m := range current {
		result[m.Addr] = struct{}{}
	}
	for _, m := range add {
		result[strings.TrimSpace(m.Addr)] = struct{}{}
	}
	for _, addr := range remove {
		delete(result, strings.TrimSpace(addr))
	}
	return CheckOwnerCount(len(result))
}

func CheckOwnerCount(n int) error {
	if n < MinOwners || n > MaxOwners {
		return fmt.Errorf("%w: got %d", ErrOwnershipMembersRequirementNotMet, n)
	}
	return nil
}

// UpdateMembers applies additions (new or re-weighted members) and then
// removals. Only the admin may call it.
func UpdateMembers(store kv.Store, sender string, remove []string, add []Member) ([]MemberDiff, error) {
	if err := AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	if err := ValidateOwnerCount(store, remove, add); err != nil {
		return nil, err
	}

	total, err := TotalWeight(store)
	if err != nil {
		return nil, crerr.Wrap(err, "load total weight")
	}

	var diffs []MemberDiff
	for _, m := range add {
		m.Addr = strings.TrimSpace(m.Addr)
		if m.Addr == "" {
			return nil, fmt.Errorf("%w: member address is required", usecase.ErrInvalidInput)
		}
		old, existed, err := members.May(store, []byte(m.Addr))
		if err != nil {
			return nil, crerr.Wrap(err, "load member")
		}
		diff := MemberDiff{Key: m.Addr, NewWeight: ptr(m.Weight)}
		if existed {
			diff.OldWeight = ptr(old.Weight)
			total -= old.Weight
		}
		if err := members.Save(store, []byte(m.Addr), m); err != nil {
			return nil, crerr.Wrap(err, "save member")
		}
		total += m.Weight
		diffs = append(diffs, diff)
	}
	for _, addr := range remove {
		addr = strings.TrimSpace(addr)
		old, existed, err := members.May(store, []byte(addr))
		if err != nil {
			return nil, crerr.Wrap(err, "load member")
		}
		if !existed {
			continue
		}
		if err := members.Remove(store, []byte(addr)); err != nil {
			return nil, crerr.Wrap(err, "remove member")
		}
		total -= old.Weight
		diffs = append(diffs, MemberDiff{Key: addr, OldWeight: ptr(old.Weight)})
	}
	if err := totalItem.Save(store, total); err != nil {
		return nil, crerr.Wrap(err, "save total weight")
	}
	return diffs, nil
}

// ResetOwnership hands the contract to a buyer: the buyer becomes the admin
// and the only member, with full weight.
func ResetOwnership(store kv.Store, buyer string) error {
	current, err := AllMembers(store)
	if err != nil {
		return err
	}
	for _, m := range current {
		if err := members.Remove(store, []byte(m.Addr)); err != nil {
			return crerr.Wrap(err, "remove member")
		}
	}
	if err := members.Save(store, []byte(buyer), Member{Addr: buyer, Weight: 100}); err != nil {
		return crerr.Wrap(err, "save member")
	}
	if err := totalItem.Save(store, 100); err != nil {
		return crerr.Wrap(err, "save total weight")
	}
	return adminItem.Save(store, buyer)
}

func Hooks(store kv.Reader) ([]string, error) {
	hooks, _, err := hooksItem.May(store)
	if err != nil {
		return nil, crerr.Wrap(err, "load hooks")
	}
	return hooks, nil
}

// RegisterHook adds a hook without an admin check. It is used while a
// contract is being set up.
func RegisterHook(store kv.Store, addr string) error {
	hooks, err := Hooks(store)
	if err != nil {
		return err
	}
	if slices.Contains(hooks, addr) {
		return fmt.Errorf("%w: %s", ErrHookAlreadyRegistered, addr)
	}
	hooks = append(hooks, addr)
	sort.Strings(hooks)
	return hooksItem.Save(store, hooks)
}

func AddHook(store kv.Store, sender, addr string) error {
	if err := AssertAdmin(store, sender); err != nil {
		return err
	}
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("%w: hook address is required", usecase.ErrInvalidInput)
	}
	return RegisterHook(store, strings.TrimSpace(addr))
}

func RemoveHook(store kv.Store, sender, addr string) error {
	if err := AssertAdmin(store, sender); err != nil {
		return err
	}
	return UnregisterHook(store, addr)
}

// UnregisterHook is RemoveHook without the admin check.
func UnregisterHook(store kv.Store, addr string) error {
	hooks, err := Hooks(store)
	if err != nil {
		return err
	}
	i := slices.Index(hooks, addr)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHookNotRegistered, addr)
	}
	return hooksItem.Save(store, slices.Delete(hooks, i, i+1))
}

func ptr(v uint64) *uint64 { return &v }

// MemberChangedHook is sent to every registered hook after UpdateMembers.
type MemberChangedHook struct {
	Diffs []MemberDiff `json:"diffs"`
}

func (*MemberChangedHook) VariantName() string { return "member_changed_hook" }

// HookMessages builds one notification per registered hook.
func HookMessages(store kv.Reader, diffs []MemberDiff) ([]chain.Msg, error) {
	if len(diffs) == 0 {
		return nil, nil
	}
	hooks, err := Hooks(store)
	if err != nil {
		return nil, err
	}
	body, err := chain.Encode(&MemberChangedHook{Diffs: diffs})
	if err != nil {
		return nil, err
	}
	out := make([]chain.Msg, 0, len(hooks))
	for _, hook := range hooks {
		out = append(out, chain.WasmExecute{ContractAddr: hook, Msg: body})
	}
	return out, nil
}
