package world

// Each kind advances its own state machine. The only interaction between
// kinds is TryPutItem, which either accepts an item or leaves the
// producer blocked in its current state until a later tick.

// UpdateMiner advances one miner by one tick.
func (s *State) UpdateMiner(m *Miner) {
	t := &s.opts.Tuning
	switch m.State {
	case MinerMining:
		m.Work++
		if m.Work >= t.MinerWorkPerItem {
			m.Work = 0
			m.State = MinerUnloading
		}

	case MinerUnloading:
		if s.TryPutItem(m.Output, Item(1+m.NextItem)) {
			s.Stats.Mined++
			m.State = MinerMining
			m.NextItem++
			if m.NextItem >= t.MinerItemKinds {
				m.NextItem = 0
			}
		}
	}
}

// UpdateFactory advances one factory by one tick.
func (s *State) UpdateFactory(f *Factory) {
	t := &s.opts.Tuning
	switch f.State {
	case FactoryWaiting:
		if f.Full() {
			f.Items = [FactorySlots]Item{}
			f.Work = 0
			f.State = FactoryProducing
			s.Stats.Started++
		}

	case FactoryProducing:
		f.Work++
		if f.Work >= t.FactoryWorkPerItem {
			f.State = FactoryUnloading
		}

	case FactoryUnloading:
		if s.TryPutItem(f.Output, t.FactoryOutput) {
			s.Stats.Produced++
			f.State = FactoryWaiting
		}
	}
}

// UpdateBelt advances one belt by one tick.
//
// Every occupied slot gains progress up to BeltWorkPerItem. A fully
// progressed item in the last slot is handed to the output. Then, from
// the last slot toward the first, a fully progressed item moves into an
// empty successor and both counters restart. Because the scan reuses the
// slots it has just written, the outcome depends on neighbour update
// order; this is the accepted conveyor behaviour, not a FIFO guarantee.
func (s *State) UpdateBelt(b *Belt) {
	limit := s.opts.Tuning.BeltWorkPerItem

	for slot := range b.Items {
		if b.Items[slot] != ItemNone && b.Works[slot] < limit {
			b.Works[slot]++
		}
	}

	const last = BeltSlots - 1
	if b.Items[last] != ItemNone && b.Works[last] == limit {
		if s.TryPutItem(b.Output, b.Items[last]) {
			s.Stats.Handoffs++
			b.Items[last] = ItemNone
			b.Works[last] = 0
		}
	}

	for slot := last; slot > 0; slot-- {
		if b.Items[slot] == ItemNone &&
			b.Items[slot-1] != ItemNone &&
			b.Works[slot-1] == limit {

			b.Items[slot] = b.Items[slot-1]
			b.Works[slot] = 0
			b.Items[slot-1] = ItemNone
			b.Works[slot-1] = 0
		}
	}
}

// Simulate runs one tick over every live entity: miners, then factories,
// then belts, each in ascending index order.
func (s *State) Simulate() {
	s.Stats = TickStats{}
	s.SimulateMiners()
	s.SimulateFactories()
	s.SimulateBelts()
}

func (s *State) SimulateMiners() {
	miners := s.Miners.Rows()
	for i := range miners {
		if !miners[i].Deleted() {
			s.UpdateMiner(&miners[i])
		}
	}
}

func (s *State) SimulateFactories() {
	factories := s.Factories.Rows()
	for i := range factories {
		if !factories[i].Deleted() {
			s.UpdateFactory(&factories[i])
		}
	}
}

// SimulateBelts runs after miners and factories so belts see this tick's
// deposits.
func (s *State) SimulateBelts() {
	belts := s.Belts.Rows()
	for i := range belts {
		if !belts[i].Deleted() {
			s.UpdateBelt(&belts[i])
		}
	}
}
