// Package main provides the Duskvale console binary: an interactive
// command loop over the game core.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskvale/rpg/internal/config"
	"github.com/duskvale/rpg/internal/game/character"
	"github.com/duskvale/rpg/internal/game/combat"
	"github.com/duskvale/rpg/internal/game/inventory"
	"github.com/duskvale/rpg/internal/game/item"
	"github.com/duskvale/rpg/internal/game/quest"
	"github.com/duskvale/rpg/internal/game/rng"
	"github.com/duskvale/rpg/internal/game/session"
	"github.com/duskvale/rpg/internal/game/shop"
	"github.com/duskvale/rpg/internal/game/skills"
	"github.com/duskvale/rpg/internal/observability"
	"github.com/duskvale/rpg/internal/scripting"
	"github.com/duskvale/rpg/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerName := flag.String("name", "Hero", "player character name")
	classID := flag.String("class", "", "character class ID; empty = classless")
	persist := flag.Bool("persist", false, "save the character to PostgreSQL on quit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load content
	contentStart := time.Now()
	items := item.NewRegistry()
	defs, err := item.LoadItems(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	for _, def := range defs {
		if err := items.Register(def); err != nil {
			logger.Fatal("registering item", zap.String("id", def.ID), zap.Error(err))
		}
	}
	classes := character.NewClassRegistry()
	classDefs, err := character.LoadClasses(cfg.Content.ClassesDir)
	if err != nil {
		logger.Fatal("loading classes", zap.Error(err))
	}
	for _, class := range classDefs {
		if err := classes.Register(class); err != nil {
			logger.Fatal("registering class", zap.String("id", class.ID), zap.Error(err))
		}
	}
	quests, err := quest.LoadQuests(cfg.Content.QuestsDir)
	if err != nil {
		logger.Fatal("loading quests", zap.Error(err))
	}
	catalog, err := skills.LoadSkills(cfg.Content.SkillsDir)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("items", len(defs)),
		zap.Int("classes", len(classDefs)),
		zap.Int("quests", len(quests)),
		zap.Int("skills", len(catalog)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	var effects *scripting.Engine
	if cfg.Content.ScriptsDir != "" {
		effects, err = scripting.NewEngine(cfg.Content.ScriptsDir, scripting.DefaultOpcodeBudget, logger)
		if err != nil {
			logger.Fatal("loading effect scripts", zap.Error(err))
		}
		defer effects.Close()
	}

	var effectRunner inventory.EffectRunner
	if effects != nil {
		effectRunner = effects
	}

	game, err := session.NewGame(*playerName, *classID, cfg.Game,
		session.Registries{Items: items, Classes: classes}, effectRunner)
	if err != nil {
		logger.Fatal("creating game", zap.Error(err))
	}

	store, err := shop.New("Village Trader")
	if err != nil {
		logger.Fatal("creating shop", zap.Error(err))
	}
	for _, def := range defs {
		if def.Price > 0 {
			if err := store.AddStock(def, def.Price, 5); err != nil {
				logger.Fatal("stocking shop", zap.String("id", def.ID), zap.Error(err))
			}
		}
	}

	logger.Info("game ready",
		zap.String("player", game.Player.Name),
		zap.String("class", game.Player.Class),
		zap.Duration("elapsed", time.Since(start)),
	)

	loop := &gameLoop{
		game:    game,
		quests:  quests,
		catalog: catalog,
		store:   store,
		rng:     rng.NewCryptoSource(),
		cfg:     cfg.Game,
		logger:  logger,
		out:     os.Stdout,
	}
	loop.run(bufio.NewScanner(os.Stdin))

	if *persist {
		saveStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo := postgres.NewCharacterRepository(pool.DB())
		if err := repo.Create(ctx, game.Player); err != nil {
			if !errors.Is(err, postgres.ErrCharacterExists) {
				logger.Fatal("saving character", zap.Error(err))
			}
			if err := repo.Save(ctx, game.Player); err != nil {
				logger.Fatal("saving character", zap.Error(err))
			}
		}
		if err := repo.SaveItems(ctx, game.Player.ID, inventoryRows(game)); err != nil {
			logger.Fatal("saving inventory", zap.Error(err))
		}
		logger.Info("character saved",
			zap.String("id", game.Player.ID),
			zap.Duration("elapsed", time.Since(saveStart)),
		)
	}
}

// inventoryRows flattens the live inventory into storage rows.
func inventoryRows(game *session.GameState) []postgres.ItemRow {
	var rows []postgres.ItemRow
	for i, def := range game.Inventory.Equipped() {
		rows = append(rows, postgres.ItemRow{ItemID: def.ID, Quantity: 1, EquipOrder: i})
	}
	for _, held := range game.Inventory.Held() {
		rows = append(rows, postgres.ItemRow{ItemID: held.Def.ID, Quantity: held.Quantity, EquipOrder: -1})
	}
	return rows
}

type gameLoop struct {
	game    *session.GameState
	quests  []*quest.Quest
	catalog []*skills.Skill
	store   *shop.Shop
	rng     rng.Source
	cfg     config.GameConfig
	logger  *zap.Logger
	out     io.Writer

	enemy *character.Character
}

func (l *gameLoop) printf(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *gameLoop) run(in *bufio.Scanner) {
	l.printf("Welcome to Duskvale, %s. Type 'help' for commands.", l.game.Player.Name)
	for {
		fmt.Fprintf(l.out, "[%s] > ", l.game.Location)
		if !in.Scan() {
			return
		}
		fields := strings.Fields(strings.TrimSpace(in.Text()))
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			l.printf("Farewell.")
			return
		}
		if l.dispatch(cmd, args) {
			return
		}
		l.game.AdvanceTurn()
	}
}

// dispatch runs one command and reports whether the game is over.
func (l *gameLoop) dispatch(cmd string, args []string) (over bool) {
	switch cmd {
	case "help":
		l.printf("commands: status inventory equip <item> unequip <item> use <item>")
		l.printf("          fight attack explore shop buy <item> bank <deposit|withdraw> <amount>")
		l.printf("          quests accept <quest> complete <quest> <objective>")
		l.printf("          skills learn <skill> achievements move <place> quit")
	case "status":
		p := l.game.Player
		l.printf("%s (%s) level %d  HP %d/%d  ATK %d  DEF %d  XP %d/%d  coins %d  banked %d",
			p.Name, displayClass(p), p.Level, p.HP, p.MaxHP, p.Attack, p.Defense,
			p.XP, l.game.Leveling.NextThreshold(p), p.Currency, l.game.Bank.Balance(p))
		l.printf("turns %d, enemies defeated %d", l.game.Turns, l.game.EnemiesDefeated)
	case "inventory":
		for _, held := range l.game.Inventory.Held() {
			l.printf("  %s x%d", held.Def.DisplayName(), held.Quantity)
		}
		for _, def := range l.game.Inventory.Equipped() {
			l.printf("  %s (equipped)", def.DisplayName())
		}
	case "equip":
		l.oneArg(args, func(id string) error { return l.game.Inventory.Equip(l.game.Player, id) })
	case "unequip":
		l.oneArg(args, func(id string) error { return l.game.Inventory.Unequip(l.game.Player, id) })
	case "use":
		l.oneArg(args, func(id string) error { return l.game.Inventory.Use(l.game.Player, id) })
	case "fight":
		l.spawnEnemy()
	case "attack":
		return l.attack()
	case "explore":
		l.explore()
	case "shop":
		for _, listing := range l.store.List() {
			l.printf("  %s: %d coins (%d left)", listing.Def.DisplayName(), listing.Price, listing.Quantity)
		}
	case "buy":
		l.oneArg(args, l.buy)
	case "bank":
		l.bankCmd(args)
	case "quests":
		l.listQuests()
	case "accept":
		l.oneArg(args, l.acceptQuest)
	case "complete":
		l.completeObjective(args)
	case "skills":
		l.listSkills()
	case "learn":
		l.oneArg(args, l.learnSkill)
	case "achievements":
		for _, id := range l.game.Achievements.Earned(l.game.Player) {
			l.printf("  %s", id)
		}
	case "move":
		l.oneArg(args, l.game.MoveTo)
	default:
		l.printf("unknown command %q; try 'help'", cmd)
	}
	return false
}

func (l *gameLoop) oneArg(args []string, fn func(string) error) {
	if len(args) != 1 {
		l.printf("expected exactly one argument")
		return
	}
	if err := fn(args[0]); err != nil {
		l.printf("%v", err)
	}
}

func (l *gameLoop) spawnEnemy() {
	level := l.game.Player.Level
	enemy, err := character.New("Goblin", 20+10*level, 3+2*level, 1+level)
	if err != nil {
		l.logger.Error("spawning enemy", zap.Error(err))
		return
	}
	l.enemy = enemy
	l.printf("A %s appears! (%d HP)", enemy.Name, enemy.HP)
}

// attack resolves one exchange and reports whether the player died.
func (l *gameLoop) attack() bool {
	if l.enemy == nil || !l.enemy.IsAlive() {
		l.printf("nothing to attack; try 'fight'")
		return false
	}
	result, err := combat.ResolveAttack(l.game.Player, l.enemy, l.rng, l.cfg.CritChance)
	if err != nil {
		l.printf("%v", err)
		return false
	}
	l.printHit(l.game.Player, l.enemy, result)
	if !l.enemy.IsAlive() {
		xp := 40 + 20*l.enemy.Level
		level, err := l.game.RecordVictory(xp)
		if err != nil {
			l.printf("%v", err)
			return false
		}
		l.printf("%s falls. You gain %d XP (level %d).", l.enemy.Name, xp, level)
		l.enemy = nil
		return false
	}
	// The enemy strikes back.
	counter, err := combat.ResolveAttack(l.enemy, l.game.Player, l.rng, l.cfg.CritChance)
	if err != nil {
		l.printf("%v", err)
		return false
	}
	l.printHit(l.enemy, l.game.Player, counter)
	if !l.game.Player.IsAlive() {
		l.printf("You have fallen. Game over after %d turns.", l.game.Turns)
		return true
	}
	return false
}

// listSkills prints learned skills, then the catalog with the
// class-adjusted level requirement for each unlearned skill.
func (l *gameLoop) listSkills() {
	for _, id := range l.game.Skills.Learned(l.game.Player) {
		l.printf("  [known] %s", id)
	}
	for _, s := range l.catalog {
		if l.game.Skills.HasLearned(l.game.Player, s.ID) {
			continue
		}
		status := fmt.Sprintf("requires level %d", s.RequiredLevel)
		if l.game.Skills.CanLearn(l.game.Player, s) {
			status = "learnable"
		}
		l.printf("  %-14s %-10s %s", s.ID, s.Category, status)
	}
}

func (l *gameLoop) learnSkill(id string) error {
	for _, s := range l.catalog {
		if s.ID == id {
			if err := l.game.Skills.Learn(l.game.Player, s); err != nil {
				return err
			}
			l.printf("You have learned %s.", s.Name)
			return nil
		}
	}
	return fmt.Errorf("no skill %q in the catalog", id)
}

// explore rolls a random wilderness event: an ambush, a treasure find,
// a chance to pick up a skill, or nothing at all.
func (l *gameLoop) explore() {
	roll := l.rng.Float64()
	switch {
	case roll < 0.4:
		l.spawnEnemy()
	case roll < 0.7:
		gold := 20 + int(l.rng.Float64()*81)
		if err := l.game.Player.AddCurrency(gold); err != nil {
			l.printf("%v", err)
			return
		}
		l.printf("You find a stash of %d coins.", gold)
	case roll < 0.9:
		l.skillEncounter()
	default:
		l.printf("The road is quiet.")
	}
}

// skillEncounter offers a random unlearned skill from the catalog and
// teaches it on the spot when the player qualifies.
func (l *gameLoop) skillEncounter() {
	if len(l.catalog) == 0 {
		l.printf("The road is quiet.")
		return
	}
	s := l.catalog[int(l.rng.Float64()*float64(len(l.catalog)))]
	if l.game.Skills.HasLearned(l.game.Player, s.ID) {
		l.printf("You practice %s for a while.", s.Name)
		return
	}
	if !l.game.Skills.CanLearn(l.game.Player, s) {
		l.printf("You meet a %s teacher, but the craft is beyond you for now.", s.Name)
		return
	}
	if err := l.game.Skills.Learn(l.game.Player, s); err != nil {
		l.printf("%v", err)
		return
	}
	l.printf("A wandering teacher shows you the basics of %s. Skill learned!", s.Name)
}

func (l *gameLoop) printHit(attacker, defender *character.Character, r combat.Result) {
	suffix := ""
	if r.Critical {
		suffix = " (crit!)"
	}
	l.printf("%s hits %s for %d%s, %d HP left", attacker.Name, defender.Name, r.Damage, suffix, r.DefenderHP)
}

func (l *gameLoop) buy(id string) error {
	if err := l.store.Sell(id, l.game.Player, l.game.Inventory); err != nil {
		return err
	}
	if l.game.Achievements.RecordPurchase(l.game.Player) {
		l.printf("Achievement earned: first purchase!")
	}
	return nil
}

func (l *gameLoop) bankCmd(args []string) {
	if len(args) != 2 {
		l.printf("usage: bank <deposit|withdraw> <amount>")
		return
	}
	var amount int
	if _, err := fmt.Sscanf(args[1], "%d", &amount); err != nil {
		l.printf("bad amount %q", args[1])
		return
	}
	var err error
	switch args[0] {
	case "deposit":
		err = l.game.Bank.Deposit(l.game.Player, amount)
	case "withdraw":
		err = l.game.Bank.Withdraw(l.game.Player, amount)
	default:
		l.printf("usage: bank <deposit|withdraw> <amount>")
		return
	}
	if err != nil {
		l.printf("%v", err)
		return
	}
	l.printf("banked %d, wallet %d", l.game.Bank.Balance(l.game.Player), l.game.Player.Currency)
}

func (l *gameLoop) listQuests() {
	for _, q := range l.game.Quests.Active(l.game.Player) {
		l.printf("  [active] %s: %s", q.ID, q.Name)
		for _, o := range q.Objectives {
			l.printf("      - %s: %s", o.ID, o.Description)
		}
	}
	for _, q := range l.game.Quests.Completed(l.game.Player) {
		l.printf("  [done]   %s: %s", q.ID, q.Name)
	}
	for _, q := range l.quests {
		l.printf("  [board]  %s: %s (%d coins)", q.ID, q.Name, q.Reward)
	}
}

func (l *gameLoop) acceptQuest(id string) error {
	for _, q := range l.quests {
		if q.ID == id {
			return l.game.Quests.Accept(l.game.Player, q)
		}
	}
	return fmt.Errorf("no quest %q on the board", id)
}

func (l *gameLoop) completeObjective(args []string) {
	if len(args) != 2 {
		l.printf("usage: complete <quest> <objective>")
		return
	}
	done, err := l.game.Quests.CompleteObjective(l.game.Player, args[0], args[1])
	if err != nil {
		l.printf("%v", err)
		return
	}
	if !done {
		l.printf("objective complete")
		return
	}
	l.printf("Quest %q complete!", args[0])
	for _, q := range l.quests {
		if q.ID == args[0] {
			if err := l.game.Player.AddCurrency(q.Reward); err == nil && q.Reward > 0 {
				l.printf("Reward: %d coins.", q.Reward)
			}
		}
	}
	if l.game.Achievements.RecordQuestCompletion(l.game.Player) {
		l.printf("Achievement earned: quest novice!")
	}
}

func displayClass(c *character.Character) string {
	if c.Class == "" {
		return "adventurer"
	}
	return c.Class
}
