package mailbox

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"optiledger-backend/internal/ingest/usecase"
	"optiledger-backend/pkg/mailparse"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
)

// Service polls a dedicated intake mailbox over IMAP and feeds every unseen
// message through the ingestion pipeline. Each poll is a fresh
// connect/login/select cycle; state lives on the server as the Seen flag.
type Service struct {
	addr      string
	username  string
	password  string
	accountID string
	interval  time.Duration
	ingest    usecase.IngestUsecase
}

// NewService creates the mailbox poller for one intake account
func NewService(server, port, username, password, accountID string, interval time.Duration, ingest usecase.IngestUsecase) *Service {
	return &Service{
		addr:      net.JoinHostPort(server, port),
		username:  username,
		password:  password,
		accountID: accountID,
		interval:  interval,
		ingest:    ingest,
	}
}

// Start launches the polling loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go func() {
		log.Printf("[Mailbox] polling %s as %s every %s", s.addr, s.username, s.interval)
		s.poll(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

// poll swallows errors so one bad cycle never stops the loop
func (s *Service) poll(ctx context.Context) {
	if err := s.pollOnce(ctx); err != nil {
		log.Printf("[Mailbox] poll failed: %v", err)
	}
}

func (s *Service) pollOnce(ctx context.Context) error {
	c, err := imapclient.DialTLS(s.addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %v", s.addr, err)
	}
	defer c.Logout()

	if err := c.Login(s.username, s.password); err != nil {
		return fmt.Errorf("login: %v", err)
	}
	if _, err := c.Select("INBOX", false); err != nil {
		return fmt.Errorf("select inbox: %v", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("search unseen: %v", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Printf("[Mailbox] %d unseen message(s)", len(ids))

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	for msg := range messages {
		s.process(ctx, msg, section)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("fetch: %v", err)
	}

	// every fetched message went through the pipeline exactly once; dedup
	// and dead-lettering already own whatever went wrong inside it, so
	// nothing is left unseen to be retried forever
	flags := []interface{}{imap.SeenFlag}
	if err := c.Store(seqset, imap.FormatFlagsOp(imap.AddFlags, true), flags, nil); err != nil {
		return fmt.Errorf("mark seen: %v", err)
	}
	return nil
}

func (s *Service) process(ctx context.Context, msg *imap.Message, section *imap.BodySectionName) {
	body := msg.GetBody(section)
	if body == nil {
		log.Printf("[Mailbox] message %d has no body section", msg.SeqNum)
		return
	}

	email, err := mailparse.Parse(body)
	if err != nil {
		log.Printf("[Mailbox] message %d: decode failed: %v", msg.SeqNum, err)
		return
	}

	result := s.ingest.Ingest(ctx, s.accountID, *email)
	switch {
	case result.Duplicate:
		log.Printf("[Mailbox] message %d: duplicate of order %s", msg.SeqNum, result.OrderID)
	case result.Success:
		log.Printf("[Mailbox] message %d: created order %s (%d items)", msg.SeqNum, result.OrderID, result.ItemsProcessed)
	default:
		log.Printf("[Mailbox] message %d: not ingested: %v", msg.SeqNum, result.Failures)
	}
}
