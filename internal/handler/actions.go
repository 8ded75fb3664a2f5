package handler

import (
	"context"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/internal/service"
	"dodies-rest-api/pkg/apierror"
	"dodies-rest-api/pkg/response"
)

// Dispatcher is the single entry point of the API: it maps the action
// query parameter onto a handler and folds every outcome, including
// failures, into the response envelope.
type Dispatcher struct {
	waitlist  *service.WaitlistService
	records   *service.RecordService
	inventory *service.InventoryService
	dashboard *service.DashboardService

	actions map[string]actionFunc
}

// actionResult is what one action hands back: a data payload, or a
// human-readable acknowledgement for write actions.
type actionResult struct {
	data    interface{}
	message string
}

type actionFunc func(ctx context.Context, p Params) (actionResult, error)

// NewDispatcher creates the dispatcher and registers the action table.
func NewDispatcher(
	waitlist *service.WaitlistService,
	records *service.RecordService,
	inventory *service.InventoryService,
	dashboard *service.DashboardService,
) *Dispatcher {
	d := &Dispatcher{
		waitlist:  waitlist,
		records:   records,
		inventory: inventory,
		dashboard: dashboard,
	}
	d.actions = map[string]actionFunc{
		"addToWaitlist":        d.addToWaitlist,
		"updateWaitlistStatus": d.updateWaitlistStatus,
		"getWaitlist":          d.getWaitlist,
		"getInventory":         d.getInventory,
		"addShoutout":          d.addShoutout,
		"getShoutouts":         d.getShoutouts,
		"addFeedback":          d.addFeedback,
		"getFeedback":          d.getFeedback,
		"getSpecials":          d.getSpecials,
		"logChat":              d.logChat,
		"getChatLogs":          d.getChatLogs,
		"getVIPs":              d.getVIPs,
		"getDashboardStats":    d.getDashboardStats,
		"addLead":              d.addLead,
		"getLeads":             d.getLeads,
	}
	return d
}

// Handle serves GET /exec. Action names are matched exactly; unknown names
// and handler failures come back as success:false envelopes with HTTP 200,
// never as a raised error.
func (d *Dispatcher) Handle(w http.ResponseWriter, r *http.Request) {
	p := paramsFromQuery(r.URL.Query())
	callback := p.Get("callback")
	action := p.Get("action")

	fn, ok := d.actions[action]
	if !ok {
		response.Fail(w, callback, apierror.UnknownAction(action))
		return
	}

	res, err := fn(r.Context(), p)
	if err != nil {
		log.Printf("[Dispatcher] %s failed (%s): %v", action, apierror.CodeOf(err), err)
		response.Fail(w, callback, err)
		return
	}
	if res.data != nil {
		response.OK(w, callback, res.data)
		return
	}
	response.Ack(w, callback, res.message)
}

func (d *Dispatcher) addToWaitlist(ctx context.Context, p Params) (actionResult, error) {
	id, err := d.waitlist.Join(ctx, service.JoinRequest{
		Name:        p.Pick("", "name", "fullName"),
		Phone:       p.Pick("", "phone", "phoneNumber", "tel"),
		Party:       p.Pick("", "partySize", "party", "size"),
		Notes:       p.Pick("", "specialNotes", "notes", "note"),
		SmsOptIn:    p.Pick("Yes", "smsConsent", "optIn"),
		FutureTexts: p.Pick("No", "marketingOptIn", "futureTextAlerts"),
		SpiceLevel:  p.Pick("", "spiceLevel", "spice", "spice_level", "heat", "heatLevel"),
	})
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: map[string]string{"id": id}}, nil
}

func (d *Dispatcher) updateWaitlistStatus(ctx context.Context, p Params) (actionResult, error) {
	entryID := p.Get("id")
	rowParam := p.Get("row")

	var row int
	if entryID == "" {
		n, err := strconv.Atoi(rowParam)
		if err != nil {
			return actionResult{}, apierror.InvalidInput("invalid row")
		}
		row = n
	}

	if err := d.waitlist.UpdateStatus(ctx, row, entryID, p.Get("status")); err != nil {
		return actionResult{}, err
	}
	return actionResult{}, nil
}

func (d *Dispatcher) getWaitlist(ctx context.Context, p Params) (actionResult, error) {
	entries, err := d.waitlist.List(ctx)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: entries}, nil
}

func (d *Dispatcher) getInventory(ctx context.Context, p Params) (actionResult, error) {
	items, err := d.inventory.Board(ctx)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: items}, nil
}

func (d *Dispatcher) addShoutout(ctx context.Context, p Params) (actionResult, error) {
	err := d.records.Append(ctx, service.ShoutoutsTable, []string{
		p.Get("staff"),
		p.Get("reasons"),
		p.Get("message"),
		p.Pick("Anonymous", "from"),
	})
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{message: "Shoutout saved!"}, nil
}

func (d *Dispatcher) getShoutouts(ctx context.Context, p Params) (actionResult, error) {
	return d.listRecords(ctx, service.ShoutoutsTable.Name)
}

func (d *Dispatcher) addFeedback(ctx context.Context, p Params) (actionResult, error) {
	err := d.records.Append(ctx, service.FeedbackTable, []string{
		p.Get("rating"),
		p.Get("text"),
		p.Get("categories"),
		p.Pick("Anonymous", "from"),
		p.Get("email"),
		p.Pick("neutral", "sentiment"),
	})
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{message: "Feedback saved!"}, nil
}

func (d *Dispatcher) getFeedback(ctx context.Context, p Params) (actionResult, error) {
	return d.listRecords(ctx, service.FeedbackTable.Name)
}

func (d *Dispatcher) getSpecials(ctx context.Context, p Params) (actionResult, error) {
	specials, err := d.records.Specials(ctx)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: specials}, nil
}

func (d *Dispatcher) logChat(ctx context.Context, p Params) (actionResult, error) {
	err := d.records.Append(ctx, service.ChatLogsTable, []string{
		p.Get("question"),
		p.Pick("neutral", "sentiment"),
	})
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{}, nil
}

func (d *Dispatcher) getChatLogs(ctx context.Context, p Params) (actionResult, error) {
	return d.listRecords(ctx, service.ChatLogsTable.Name)
}

func (d *Dispatcher) getVIPs(ctx context.Context, p Params) (actionResult, error) {
	vips, err := d.records.VIPs(ctx)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: vips}, nil
}

func (d *Dispatcher) getDashboardStats(ctx context.Context, p Params) (actionResult, error) {
	stats, err := d.dashboard.Stats(ctx)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: stats}, nil
}

func (d *Dispatcher) addLead(ctx context.Context, p Params) (actionResult, error) {
	err := d.records.Append(ctx, service.LeadsTable, []string{
		p.Get("contactName"),
		p.Get("contactRole"),
		p.Get("email"),
		p.Get("phone"),
		p.Get("restaurantName"),
		p.Get("city"),
		p.Get("cuisineType"),
		p.Get("seatingCapacity"),
		p.Get("biggestPain"),
		p.Pick("Professional", "plan"),
	})
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{message: "Lead captured!"}, nil
}

func (d *Dispatcher) getLeads(ctx context.Context, p Params) (actionResult, error) {
	return d.listRecords(ctx, service.LeadsTable.Name)
}

func (d *Dispatcher) listRecords(ctx context.Context, name string) (actionResult, error) {
	records, err := d.records.List(ctx, name)
	if err != nil {
		return actionResult{}, err
	}
	return actionResult{data: records}, nil
}
