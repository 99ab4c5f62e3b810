package classify

import (
	"strings"
	"testing"

	"github.com/ostlog/go-freightgate/internal/extract"
	"github.com/ostlog/go-freightgate/internal/types"
)

func fragment(t *testing.T, body string) *extract.Fragment {
	t.Helper()
	frag, err := extract.Result(body)
	if err != nil {
		t.Fatalf("extract.Result() error = %v", err)
	}
	return frag
}

func TestReplySuccessFields(t *testing.T) {
	frag := fragment(t, `<cotacao><erro>0</erro><mensagem>OK</mensagem><frete>159,77</frete><prazo>5</prazo><cotacao>123</cotacao><token>tok-1</token></cotacao>`)
	reply := Reply(frag)

	if reply.OutcomeRaw != "0" || reply.OutcomeCode != 0 {
		t.Errorf("outcome = %q/%d", reply.OutcomeRaw, reply.OutcomeCode)
	}
	if reply.FreightValue == nil || *reply.FreightValue != 159.77 {
		t.Errorf("FreightValue = %v, want 159.77", reply.FreightValue)
	}
	if reply.DeadlineDays == nil || *reply.DeadlineDays != 5 {
		t.Errorf("DeadlineDays = %v, want 5", reply.DeadlineDays)
	}
	if reply.QuotationNumber != "123" || reply.Token != "tok-1" {
		t.Errorf("quotation/token = %q/%q", reply.QuotationNumber, reply.Token)
	}
}

func TestReplyMissingFields(t *testing.T) {
	frag := fragment(t, `<cotacao><erro>3</erro></cotacao>`)
	reply := Reply(frag)

	if reply.OutcomeCode != 3 {
		t.Errorf("OutcomeCode = %d, want 3", reply.OutcomeCode)
	}
	if reply.FreightValue != nil || reply.DeadlineDays != nil {
		t.Errorf("absent numeric fields should stay nil: %v %v", reply.FreightValue, reply.DeadlineDays)
	}
	if reply.Message != "" || reply.QuotationNumber != "" {
		t.Errorf("absent string fields should stay empty: %+v", reply)
	}
}

func TestOutcomeSuccess(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		message string
		want    string // expected message
	}{
		{"zero code", "0", "Cotação efetuada", "Cotação efetuada"},
		{"absent code", "", "", "OK"},
		{"literal ok", "OK", "", "OK"},
		{"blank message defaults", "0", "", "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Outcome(&types.RemoteReply{OutcomeRaw: tt.raw, Message: tt.message})
			if out.State != types.StateSuccess {
				t.Fatalf("State = %q, want success", out.State)
			}
			if out.Success.Message != tt.want {
				t.Errorf("Message = %q, want %q", out.Success.Message, tt.want)
			}
		})
	}
}

func TestOutcomeFreightConversion(t *testing.T) {
	frag := fragment(t, `<cotacao><erro>0</erro><frete>1.159,77</frete><prazo>5</prazo></cotacao>`)
	out := Outcome(Reply(frag))

	if out.State != types.StateSuccess {
		t.Fatalf("State = %q, want success", out.State)
	}
	if out.Success.FreightValue == nil || *out.Success.FreightValue != 1159.77 {
		t.Errorf("FreightValue = %v, want 1159.77", out.Success.FreightValue)
	}
}

func TestOutcomeBusinessFailure(t *testing.T) {
	out := Outcome(&types.RemoteReply{OutcomeRaw: "9", OutcomeCode: 9, Message: "CEP destino não atendido"})

	if out.State != types.StateBusinessFailure {
		t.Fatalf("State = %q, want business failure", out.State)
	}
	if out.OutcomeCode != 9 {
		t.Errorf("OutcomeCode = %d, want 9", out.OutcomeCode)
	}
	if out.Message != "CEP destino não atendido" {
		t.Errorf("remote message not preserved verbatim: %q", out.Message)
	}
	if out.Authorization {
		t.Error("coverage failure misclassified as authorization failure")
	}
}

func TestOutcomeAuthorizationFailure(t *testing.T) {
	tests := []struct {
		name  string
		reply types.RemoteReply
	}{
		{"login keyword in message", types.RemoteReply{OutcomeRaw: "7", OutcomeCode: 7, Message: "Invalid login"}},
		{"login keyword case insensitive", types.RemoteReply{OutcomeRaw: "7", OutcomeCode: 7, Message: "LOGIN inválido"}},
		{"invalid login sentinel code", types.RemoteReply{OutcomeRaw: "1", OutcomeCode: 1, Message: "acesso negado"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Outcome(&tt.reply)
			if out.State != types.StateBusinessFailure {
				t.Fatalf("State = %q, want business failure", out.State)
			}
			if !out.Authorization {
				t.Error("expected authorization failure")
			}
			if out.OutcomeCode != tt.reply.OutcomeCode {
				t.Errorf("OutcomeCode = %d, want %d", out.OutcomeCode, tt.reply.OutcomeCode)
			}
		})
	}
}

func TestMaskEnvelope(t *testing.T) {
	env := `<tns:cotarSite><dominio>OST</dominio><senha>secret</senha><senhaPagador>1234</senhaPagador><token>tok-1</token></tns:cotarSite>`
	masked := MaskEnvelope(env)

	for _, leak := range []string{"secret", "1234", "tok-1"} {
		if strings.Contains(masked, leak) {
			t.Errorf("masked envelope still contains %q: %s", leak, masked)
		}
	}
	for _, want := range []string{"<senha>***</senha>", "<senhaPagador>***</senhaPagador>", "<token>***</token>", "<dominio>OST</dominio>"} {
		if !strings.Contains(masked, want) {
			t.Errorf("masked envelope missing %q: %s", want, masked)
		}
	}
}

func TestMaskArgs(t *testing.T) {
	doc := []byte(`{"dominio":"OST","senha":"secret","senhaPagador":"1234","token":"tok-1"}`)
	masked := string(MaskArgs(doc))

	for _, leak := range []string{"secret", "1234", "tok-1"} {
		if strings.Contains(masked, leak) {
			t.Errorf("masked args still contain %q: %s", leak, masked)
		}
	}
	if !strings.Contains(masked, `"dominio":"OST"`) {
		t.Errorf("non-credential field altered: %s", masked)
	}
}
