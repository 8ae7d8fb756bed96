package service

import (
	"strconv"
	"strings"

	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── capacity reconciliation ──
//
// The Ativos column of the slot ledger is derived state: the number of
// roster rows bound to the slot whose Ativo flag is truthy. It is
// recomputed from the roster on every load and before every save, so a
// hand-edited value never survives.

// activeCountBySlot counts active roster rows per slot reference.
// Rows with a blank slot reference are unbound and count nowhere.
func activeCountBySlot(roster *sheet.Table) map[string]int {
	counts := make(map[string]int)
	for _, r := range roster.Rows {
		if !sheet.IsTruthy(r[model.ColPersonActive]) {
			continue
		}
		slotID := strings.TrimSpace(r[model.ColPersonSlotID])
		if slotID == "" {
			continue
		}
		counts[slotID]++
	}
	return counts
}

// reconcileActiveCounts rewrites the Ativos column of every slot from
// the roster. Slots nobody references get zero, not their stale value.
func reconcileActiveCounts(slots, roster *sheet.Table) {
	counts := activeCountBySlot(roster)
	for _, r := range slots.Rows {
		id := strings.TrimSpace(r[model.ColSlotID])
		if id == "" {
			continue
		}
		r[model.ColSlotActives] = strconv.Itoa(counts[id])
	}
}

// canAdmit reports whether the slot can take one more active person.
// excludeRowID names a roster row left out of the count, so updating a
// person already bound to the slot does not count them against
// themselves. found is false when the slot does not exist.
func canAdmit(slots, roster *sheet.Table, slotID, excludeRowID string) (ok bool, capacity, active int, found bool) {
	slotID = strings.TrimSpace(slotID)
	for _, r := range slots.Rows {
		if strings.TrimSpace(r[model.ColSlotID]) == slotID {
			capacity = model.ParseCount(r[model.ColSlotCapacity])
			found = true
			break
		}
	}
	if !found {
		return false, 0, 0, false
	}

	for _, r := range roster.Rows {
		if excludeRowID != "" && strings.TrimSpace(r[model.ColPersonID]) == excludeRowID {
			continue
		}
		if strings.TrimSpace(r[model.ColPersonSlotID]) != slotID {
			continue
		}
		if sheet.IsTruthy(r[model.ColPersonActive]) {
			active++
		}
	}
	return active < capacity, capacity, active, true
}
