package chat

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/usecase"
	"github.com/sirupsen/logrus"
)

// Rules holds the score changes applied to answers.
type Rules struct {
	Reward  int64
	Penalty int64
}

// AnswerObserver is notified about every checked answer.
type AnswerObserver interface {
	AnswerRecorded(correct bool)
}

type noopAnswerObserver struct{}

func (noopAnswerObserver) AnswerRecorded(bool) {}

// Game drives the quiz conversation for one session at a time.
type Game struct {
	channel  Channel
	selector usecase.RoundSelector
	mastery  usecase.MasteryTracker
	board    usecase.ScoreBoard
	vocab    usecase.VocabularyUsecase
	rules    Rules
	observer AnswerObserver
	logger   logrus.FieldLogger
}

// NewGame wires the conversation flow.
func NewGame(
	channel Channel,
	selector usecase.RoundSelector,
	mastery usecase.MasteryTracker,
	board usecase.ScoreBoard,
	vocab usecase.VocabularyUsecase,
	rules Rules,
	observer AnswerObserver,
	logger logrus.FieldLogger,
) *Game {
	if observer == nil {
		observer = noopAnswerObserver{}
	}
	return &Game{
		channel:  channel,
		selector: selector,
		mastery:  mastery,
		board:    board,
		vocab:    vocab,
		rules:    rules,
		observer: observer,
		logger:   logger,
	}
}

var _ Handler = (*Game)(nil)

// Handle advances the session state machine by one incoming message.
func (g *Game) Handle(ctx context.Context, s *Session, in Incoming) error {
	s.UserID = in.UserID

	switch s.State {
	case StateAwaitingName:
		return g.saveName(ctx, s, in)
	case StatePlaying:
		return g.checkAnswer(ctx, s, in)
	case StateAwaitingNewWord:
		return g.saveNewWord(ctx, s, in)
	case StateAwaitingWordToDelete:
		return g.deleteWord(ctx, s, in)
	case StateIdle:
		if isStart(in.Text) {
			return g.nextRound(ctx, s)
		}
		return g.send(ctx, s, Message{Text: "Press the button to continue.", Keyboard: StartKeyboard()})
	default:
		return g.greet(ctx, s, in)
	}
}

// greet registers unknown users under their chat display name, or asks for a
// name when the channel does not supply one.
func (g *Game) greet(ctx context.Context, s *Session, in Incoming) error {
	_, err := g.vocab.FindUser(ctx, s.UserID)
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		if strings.TrimSpace(in.UserName) != "" {
			return g.register(ctx, s, in.UserName)
		}
		return g.askName(ctx, s)
	case err != nil:
		return fmt.Errorf("find user %d: %w", s.UserID, err)
	}
	if err := g.send(ctx, s, Message{Text: "The game goes on!"}); err != nil {
		return err
	}
	return g.nextRound(ctx, s)
}

func (g *Game) askName(ctx context.Context, s *Session) error {
	s.State = StateAwaitingName
	return g.send(ctx, s, Message{Text: "How should I call you?"})
}

func (g *Game) saveName(ctx context.Context, s *Session, in Incoming) error {
	return g.register(ctx, s, in.Text)
}

func (g *Game) register(ctx context.Context, s *Session, name string) error {
	user, err := g.vocab.Register(ctx, s.UserID, name)
	switch {
	case errors.Is(err, entity.ErrInvalidUserName):
		return g.askName(ctx, s)
	case errors.Is(err, entity.ErrUserAlreadyExists):
		return g.nextRound(ctx, s)
	case err != nil:
		return fmt.Errorf("register user %d: %w", s.UserID, err)
	}
	text := fmt.Sprintf("Nice to meet you, %s!\nLet the game begin!", html.EscapeString(user.Name))
	if err := g.send(ctx, s, Message{Text: text, HTML: true}); err != nil {
		return err
	}
	return g.nextRound(ctx, s)
}

func (g *Game) nextRound(ctx context.Context, s *Session) error {
	round := g.selector.SelectRound(ctx, s.UserID)
	s.Round = round
	s.State = StatePlaying
	return g.send(ctx, s, Message{
		Text:     fmt.Sprintf("How do you translate '<b>%s</b>'?", html.EscapeString(round.Term)),
		Keyboard: ChoiceKeyboard(round.Choices()),
		HTML:     true,
	})
}

func (g *Game) checkAnswer(ctx context.Context, s *Session, in Incoming) error {
	answer := strings.TrimSpace(in.Text)
	switch {
	case answer == LabelRating:
		return g.showRating(ctx, s)
	case answer == LabelAdd:
		s.State = StateAwaitingNewWord
		return g.send(ctx, s, Message{
			Text:     `Enter the word and its translation separated by a comma (for example, "кот, cat"):`,
			Keyboard: BackKeyboard(),
		})
	case answer == LabelDelete:
		return g.askWordToDelete(ctx, s)
	case isStart(answer):
		return g.nextRound(ctx, s)
	}

	round := s.Round
	if round == nil {
		return g.nextRound(ctx, s)
	}
	correct := round.IsCorrect(answer)
	g.observer.AnswerRecorded(correct)
	log := g.logger.WithFields(logrus.Fields{"user": s.UserID, "round": round.ID, "word_id": round.WordID, "correct": correct})

	if _, err := g.mastery.RecordShown(ctx, s.UserID, round.WordID); err != nil {
		log.WithError(err).Error("record exposure")
	}

	var text string
	if correct {
		text = fmt.Sprintf("Excellent! You got it! 🌟 +%s!", points(g.rules.Reward))
		if err := g.board.AdjustPoints(ctx, s.UserID, g.rules.Reward, true); err != nil {
			log.WithError(err).Error("reward points")
		}
	} else {
		text = fmt.Sprintf("Not quite. Don't give up! 💔 -%s!", points(g.rules.Penalty))
		if err := g.board.AdjustPoints(ctx, s.UserID, g.rules.Penalty, false); err != nil {
			log.WithError(err).Error("penalty points")
		}
	}
	log.Debug("answer checked")

	if err := g.send(ctx, s, Message{Text: text}); err != nil {
		return err
	}
	return g.nextRound(ctx, s)
}

func (g *Game) showRating(ctx context.Context, s *Session) error {
	text, err := g.board.RenderRating(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("render rating: %w", err)
	}
	if err := g.send(ctx, s, Message{Text: text, HTML: true}); err != nil {
		return err
	}
	s.State = StateIdle
	s.Round = nil
	return g.send(ctx, s, Message{Text: "Press the button to continue.", Keyboard: StartKeyboard()})
}

func (g *Game) saveNewWord(ctx context.Context, s *Session, in Incoming) error {
	if isBack(in.Text) {
		return g.nextRound(ctx, s)
	}

	word, err := g.vocab.AddWord(ctx, s.UserID, in.Text)
	switch {
	case errors.Is(err, entity.ErrInvalidWordPair):
		return g.send(ctx, s, Message{Text: "Wrong format. Try again."})
	case errors.Is(err, entity.ErrDuplicateWord):
		term := entity.NormalizeWordToken(firstField(in.Text))
		return g.send(ctx, s, Message{Text: fmt.Sprintf("The word %q already exists in your dictionary.", term)})
	case err != nil:
		return fmt.Errorf("add word: %w", err)
	}

	confirm := fmt.Sprintf("The word %q with translation %q was added.", word.Term, word.Translation)
	if err := g.send(ctx, s, Message{Text: confirm}); err != nil {
		return err
	}
	list, err := g.wordList(ctx, s)
	if err != nil {
		return err
	}
	s.State = StateIdle
	s.Round = nil
	return g.send(ctx, s, Message{Text: list + "\nPress the button to continue.", Keyboard: StartKeyboard(), HTML: true})
}

func (g *Game) askWordToDelete(ctx context.Context, s *Session) error {
	list, err := g.wordList(ctx, s)
	if err != nil {
		return err
	}
	s.State = StateAwaitingWordToDelete
	return g.send(ctx, s, Message{Text: list + "\nType the word you want to delete.", Keyboard: BackKeyboard(), HTML: true})
}

func (g *Game) deleteWord(ctx context.Context, s *Session, in Incoming) error {
	if isBack(in.Text) {
		return g.nextRound(ctx, s)
	}

	term := entity.NormalizeWordToken(in.Text)
	deleted, err := g.vocab.DeleteWord(ctx, s.UserID, term)
	if err != nil {
		g.logger.WithError(err).WithField("user", s.UserID).Error("delete word")
		deleted = false
	}

	format := "The word <b>%s</b> could not be deleted.\nPress the button to continue."
	if deleted {
		format = "The word <b>%s</b> was deleted.\nPress the button to continue."
	}
	s.State = StateIdle
	s.Round = nil
	return g.send(ctx, s, Message{
		Text:     fmt.Sprintf(format, html.EscapeString(capitalize(term))),
		Keyboard: StartKeyboard(),
		HTML:     true,
	})
}

func (g *Game) wordList(ctx context.Context, s *Session) (string, error) {
	words, err := g.vocab.ListWords(ctx, s.UserID)
	if err != nil {
		return "", fmt.Errorf("list words: %w", err)
	}
	return FormatWordList(words), nil
}

func (g *Game) send(ctx context.Context, s *Session, msg Message) error {
	if err := g.channel.Send(ctx, s.ID, msg); err != nil {
		return fmt.Errorf("send to session %d: %w", s.ID, err)
	}
	return nil
}

// FormatWordList renders a user's own words with their learning status.
func FormatWordList(words []entity.OwnedWord) string {
	if len(words) == 0 {
		return "You have not added any words yet."
	}
	var b strings.Builder
	b.WriteString("Words you have added:")
	for _, w := range words {
		status := "<b>learning</b>"
		if w.Mastered() {
			status = "learned"
		}
		fmt.Fprintf(&b, "\n%s - %s", html.EscapeString(w.Term), status)
	}
	return b.String()
}

func points(n int64) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d point", n)
	}
	return fmt.Sprintf("%d points", n)
}

func firstField(text string) string {
	before, _, _ := strings.Cut(text, ",")
	return strings.TrimSpace(before)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
