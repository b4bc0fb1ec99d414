package order

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/domain/repository"
)

type fakeOrderRepo struct {
	orders map[string]*entity.ServiceOrder
	seq    int64
	err    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.ServiceOrder{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.ServiceOrder) error {
	if r.err != nil {
		return r.err
	}
	r.seq++
	o.Number = r.seq
	c := *o
	r.orders[o.ID] = &c
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *entity.ServiceOrder) error {
	if r.err != nil {
		return r.err
	}
	c := *o
	r.orders[o.ID] = &c
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.ServiceOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *fakeOrderRepo) List(_ context.Context, f repository.ServiceOrderFilter) ([]*entity.ServiceOrder, int, error) {
	var out []*entity.ServiceOrder
	for _, o := range r.orders {
		if f.Product != "" && o.Product != f.Product {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, s entity.Status, at time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("no existe %s", id)
	}
	o.Status = s
	o.UpdatedAt = at
	return nil
}

func (r *fakeOrderRepo) LinkInvoice(context.Context, string, string, string, time.Time) error {
	return nil
}

func (r *fakeOrderRepo) ListDispatchOverdue(context.Context, time.Time) ([]*entity.ServiceOrder, error) {
	return nil, nil
}

type fakeCustomerRepo struct{ byID map[string]*entity.Customer }

func (r *fakeCustomerRepo) Create(context.Context, *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}
func (r *fakeCustomerRepo) GetByTaxID(context.Context, string) (*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) List(context.Context, string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Update(context.Context, *entity.Customer) error { return nil }

type fakeUserRepo struct{ byID map[string]*entity.User }

func (r *fakeUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.byID[id], nil
}
func (r *fakeUserRepo) FindByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) List(context.Context, string, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListIDsByRole(context.Context, string) ([]string, error) { return nil, nil }

type fakeStorage struct {
	saved   []string
	deleted []string
	failOn  string
}

func (s *fakeStorage) Save(r io.Reader, name, prefix string) (string, error) {
	if name == s.failOn {
		return "", fmt.Errorf("disco lleno: %s", name)
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	p := fmt.Sprintf("%s/%d-%s", prefix, len(s.saved), name)
	s.saved = append(s.saved, p)
	return p, nil
}

func (s *fakeStorage) Delete(p string) error {
	s.deleted = append(s.deleted, p)
	return nil
}

type sentNotification struct{ userID, kind, orderID string }

type fakeNotifier struct{ sent []sentNotification }

func (n *fakeNotifier) Notify(_ context.Context, userID, kind, _, _, orderID string) error {
	n.sent = append(n.sent, sentNotification{userID, kind, orderID})
	return nil
}

type fakeTickets struct{ last Ticket }

func (f *fakeTickets) RenderTicket(_ context.Context, t Ticket) ([]byte, error) {
	f.last = t
	return []byte("%PDF"), nil
}

type fakeReports struct{ rows []ReportRow }

func (f *fakeReports) WriteOrders(w io.Writer, rows []ReportRow) error {
	f.rows = rows
	_, err := w.Write([]byte("xlsx"))
	return err
}
